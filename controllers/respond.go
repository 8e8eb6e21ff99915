package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/pricing"
	"github.com/meinhoongagan/roadside-assist/services"
	"github.com/meinhoongagan/roadside-assist/utils"
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	var unknown *pricing.UnknownServiceError
	switch {
	case services.IsValidation(err), errors.As(err, &unknown),
		errors.Is(err, services.ErrNoDefaultAddress),
		errors.Is(err, services.ErrRequestAlreadyProcessed),
		errors.Is(err, services.ErrRequestNotAccepted),
		errors.Is(err, services.ErrRequestCannotComplete),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrInvalidOTP):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrRequestForbidden),
		errors.Is(err, services.ErrMechanicNotApproved):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrAddressNotFound),
		errors.Is(err, services.ErrVehicleNotFound),
		errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrMechanicNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDefaultConflict),
		errors.Is(err, services.ErrDuplicatePlate),
		errors.Is(err, services.ErrApplicationExists),
		errors.Is(err, services.ErrApplicationReviewed),
		errors.Is(err, services.ErrDuplicatePendingRequest),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail writes err as {message, error}. Internal errors are logged and
// replaced by fallback.
func Fail(c *fiber.Ctx, err error, fallback string) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.WithCtx(c.UserContext()).Error(fallback, "error", err, "path", c.Path())
		return c.Status(status).JSON(utils.NewErrorResponse(fallback))
	}
	return c.Status(status).JSON(utils.NewErrorResponse(err.Error()))
}

// BadRequest writes a 400 with msg.
func BadRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse(msg))
}

// CurrentUserID returns the account id stored by middleware.Protected.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
