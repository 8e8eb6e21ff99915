package models

import (
	"database/sql/driver"
	"time"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// IsReviewed reports whether an administrator has decided the application.
func (s ApplicationStatus) IsReviewed() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

type VehicleSpecialization string

const (
	SpecializationBike VehicleSpecialization = "Bike"
	SpecializationCar  VehicleSpecialization = "Car"
	SpecializationBoth VehicleSpecialization = "Both"
)

// ParseSpecialization returns the canonical specialization for s.
func ParseSpecialization(s string) (VehicleSpecialization, bool) {
	switch VehicleSpecialization(s) {
	case SpecializationBike, SpecializationCar, SpecializationBoth:
		return VehicleSpecialization(s), true
	}
	return "", false
}

// Matches returns the stored specializations that can serve a vehicle
// filter. "Both" matches every mechanic; a specific kind also matches
// mechanics serving both.
func (s VehicleSpecialization) Matches() []VehicleSpecialization {
	if s == SpecializationBoth {
		return []VehicleSpecialization{SpecializationBike, SpecializationCar, SpecializationBoth}
	}
	return []VehicleSpecialization{s, SpecializationBoth}
}

// Availability describes when a mechanic's store is open.
type Availability struct {
	Days          []string `json:"days"`
	OpenTime      string   `json:"openTime"`
	CloseTime     string   `json:"closeTime"`
	Emergency24x7 bool     `json:"emergency24x7"`
}

// Value implements the driver.Valuer interface
func (a Availability) Value() (driver.Value, error) {
	return valueJSON(a)
}

// Scan implements the sql.Scanner interface
func (a *Availability) Scan(value any) error {
	return scanJSON(value, a)
}

// StoreImage is an uploaded file kept in external storage.
type StoreImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type StoreImages []StoreImage

// Value implements the driver.Valuer interface
func (l StoreImages) Value() (driver.Value, error) {
	if l == nil {
		l = StoreImages{}
	}
	return valueJSON([]StoreImage(l))
}

// Scan implements the sql.Scanner interface
func (l *StoreImages) Scan(value any) error {
	return scanJSON(value, (*[]StoreImage)(l))
}

// MechanicApplication is a mechanic's one-time business verification
// submission. Approval happens out of band.
type MechanicApplication struct {
	ID                    uint                  `json:"id" gorm:"primaryKey"`
	MechanicID            uint                  `json:"mechanicId" gorm:"not null;uniqueIndex"`
	Mechanic              *Mechanic             `json:"mechanic,omitempty" gorm:"foreignKey:MechanicID"`
	BusinessName          string                `json:"businessName" gorm:"not null"`
	OwnerName             string                `json:"ownerName"`
	Phone                 string                `json:"phone"`
	Email                 string                `json:"email"`
	Address               string                `json:"address"`
	City                  string                `json:"city" gorm:"index"`
	State                 string                `json:"state"`
	Pincode               string                `json:"pincode"`
	ExperienceYears       int                   `json:"experienceYears" gorm:"not null;default:0;index"`
	VehicleSpecialization VehicleSpecialization `json:"vehicleSpecialization" gorm:"type:varchar(10);not null;default:Both"`
	ServicesProvided      StringList            `json:"servicesProvided" gorm:"type:text"`
	Availability          Availability          `json:"availability" gorm:"type:text"`
	Description           string                `json:"description"`
	LicenseNumber         string                `json:"licenseNumber"`
	StoreImages           StoreImages           `json:"storeImages" gorm:"type:text"`
	Status                ApplicationStatus     `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	ReviewedAt            *time.Time            `json:"reviewedAt,omitempty"`
	RejectReason          *string               `json:"rejectReason,omitempty"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}
