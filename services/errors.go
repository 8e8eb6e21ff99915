// Package services holds the business rules of the API. Every service takes
// its *gorm.DB through the constructor so tests can run against sqlite.
package services

import (
	"errors"
	"fmt"
)

var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrNoDefaultAddress = errors.New("please set a default address before requesting service")
	ErrDefaultConflict  = errors.New("another default was set concurrently, please retry")

	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrDuplicatePlate  = errors.New("a vehicle with this license plate already exists")

	ErrApplicationExists   = errors.New("application already submitted")
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationReviewed = errors.New("application has already been reviewed")

	ErrMechanicNotFound    = errors.New("mechanic not found")
	ErrMechanicNotApproved = errors.New("mechanic is not approved to receive requests")

	ErrRequestNotFound         = errors.New("request not found")
	ErrRequestForbidden        = errors.New("unauthorized to modify this request")
	ErrRequestAlreadyProcessed = errors.New("Request already processed")
	ErrRequestNotAccepted      = errors.New("Request must be accepted first")
	ErrRequestCannotComplete   = errors.New("Request cannot be completed")
	ErrDuplicatePendingRequest = errors.New("you already have a pending request with this mechanic")

	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrAccountNotFound    = errors.New("account not found")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
