package models

import "time"

// SavedVehicle is a vehicle owned by a user. The license plate is unique per
// user and at most one vehicle per user is primary.
type SavedVehicle struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"userId" gorm:"not null;uniqueIndex:idx_saved_vehicles_user_plate"`
	Make         string    `json:"make" gorm:"not null"`
	Model        string    `json:"model" gorm:"not null"`
	Year         int       `json:"year"`
	LicensePlate string    `json:"licensePlate" gorm:"not null;uniqueIndex:idx_saved_vehicles_user_plate"`
	Color        string    `json:"color"`
	FuelType     string    `json:"fuelType"`
	VehicleType  string    `json:"vehicleType"`
	IsPrimary    bool      `json:"isPrimary" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
