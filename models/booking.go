package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingAssigned  BookingStatus = "assigned"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// BookingContact is the contact snapshot entered on the booking form.
type BookingContact struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Address  string `json:"address" validate:"omitempty,max=300"`
}

// BookingVehicle is the vehicle snapshot entered on the booking form.
type BookingVehicle struct {
	Make         string `json:"make" validate:"required"`
	Model        string `json:"model" validate:"required"`
	Year         int    `json:"year" validate:"required,gte=1950,lte=2100"`
	LicensePlate string `json:"licensePlate" validate:"required,max=20"`
	Color        string `json:"color" validate:"omitempty,max=30"`
}

// BookingSchedule is the requested service window.
type BookingSchedule struct {
	PreferredDate string  `json:"preferredDate" validate:"required,datetime=2006-01-02"`
	PreferredTime string  `json:"preferredTime" validate:"required"`
	AlternateDate string  `json:"alternateDate" validate:"omitempty,datetime=2006-01-02"`
	AlternateTime string  `json:"alternateTime"`
	Urgency       Urgency `json:"urgency" validate:"omitempty,oneof=normal urgent emergency"`
}

// Booking is a standalone multi-step booking submission. It is not tied to
// a registered user.
type Booking struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	Contact            BookingContact  `json:"userInfo" gorm:"embedded;embeddedPrefix:contact_"`
	Vehicle            BookingVehicle  `json:"vehicleInfo" gorm:"embedded;embeddedPrefix:vehicle_"`
	MainServices       IntList         `json:"mainServices" gorm:"type:text"`
	AdditionalServices StringList      `json:"additionalServices" gorm:"type:text"`
	Schedule           BookingSchedule `json:"schedule" gorm:"embedded;embeddedPrefix:schedule_"`
	Notes              string          `json:"notes"`
	EstimatedTotal     float64         `json:"estimatedTotal"`
	RushFee            float64         `json:"rushFee"`
	FinalTotal         float64         `json:"finalTotal"`
	Status             BookingStatus   `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}
