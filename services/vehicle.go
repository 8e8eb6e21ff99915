package services

import (
	"errors"
	"strings"

	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/models"
	"gorm.io/gorm"
)

type VehicleInput struct {
	Make         *string `json:"make"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	LicensePlate *string `json:"licensePlate"`
	Color        *string `json:"color"`
	FuelType     *string `json:"fuelType"`
	VehicleType  *string `json:"vehicleType"`
	IsPrimary    *bool   `json:"isPrimary"`
}

type VehicleService struct {
	db *gorm.DB
}

func NewVehicleService(conn *gorm.DB) *VehicleService {
	return &VehicleService{db: conn}
}

// NormalizePlate upper-cases a plate and strips surrounding whitespace.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func (s *VehicleService) List(userID uint) ([]models.SavedVehicle, error) {
	var vehicles []models.SavedVehicle
	err := s.db.Where("user_id = ?", userID).
		Order("is_primary DESC").Order("created_at DESC").Order("id DESC").
		Find(&vehicles).Error
	return vehicles, err
}

func (s *VehicleService) Create(userID uint, in VehicleInput) (*models.SavedVehicle, error) {
	vehicle := models.SavedVehicle{UserID: userID}
	applyVehicle(&vehicle, in)
	if err := checkVehicle(&vehicle); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkPlateFree(tx, userID, vehicle.LicensePlate, 0); err != nil {
			return err
		}
		if vehicle.IsPrimary {
			if err := unsetPrimaryVehicles(tx, userID); err != nil {
				return err
			}
		}
		return tx.Create(&vehicle).Error
	})
	if err != nil {
		return nil, s.vehicleConflict(userID, vehicle.LicensePlate, 0, err)
	}
	return &vehicle, nil
}

func (s *VehicleService) Update(userID, vehicleID uint, in VehicleInput) (*models.SavedVehicle, error) {
	var vehicle models.SavedVehicle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findOwnedVehicle(tx, userID, vehicleID, &vehicle); err != nil {
			return err
		}
		applyVehicle(&vehicle, in)
		if err := checkVehicle(&vehicle); err != nil {
			return err
		}
		if err := checkPlateFree(tx, userID, vehicle.LicensePlate, vehicle.ID); err != nil {
			return err
		}
		if vehicle.IsPrimary {
			if err := unsetPrimaryVehicles(tx, userID); err != nil {
				return err
			}
		}
		return tx.Save(&vehicle).Error
	})
	if err != nil {
		return nil, s.vehicleConflict(userID, vehicle.LicensePlate, vehicleID, err)
	}
	return &vehicle, nil
}

func (s *VehicleService) Delete(userID, vehicleID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", vehicleID, userID).Delete(&models.SavedVehicle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// SetPrimary makes vehicleID the only primary vehicle of the user.
func (s *VehicleService) SetPrimary(userID, vehicleID uint) (*models.SavedVehicle, error) {
	var vehicle models.SavedVehicle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findOwnedVehicle(tx, userID, vehicleID, &vehicle); err != nil {
			return err
		}
		if err := unsetPrimaryVehicles(tx, userID); err != nil {
			return err
		}
		vehicle.IsPrimary = true
		return tx.Model(&vehicle).Update("is_primary", true).Error
	})
	if err != nil {
		return nil, s.vehicleConflict(userID, "", vehicleID, err)
	}
	return &vehicle, nil
}

func findOwnedVehicle(tx *gorm.DB, userID, vehicleID uint, dest *models.SavedVehicle) error {
	err := tx.Where("id = ? AND user_id = ?", vehicleID, userID).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrVehicleNotFound
	}
	return err
}

func checkPlateFree(tx *gorm.DB, userID uint, plate string, exceptID uint) error {
	var count int64
	err := tx.Model(&models.SavedVehicle{}).
		Where("user_id = ? AND license_plate = ? AND id <> ?", userID, plate, exceptID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicatePlate
	}
	return nil
}

func unsetPrimaryVehicles(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.SavedVehicle{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Update("is_primary", false).Error
}

// vehicleConflict tells a plate collision apart from a primary-flag race
// once the unique index has fired.
func (s *VehicleService) vehicleConflict(userID uint, plate string, exceptID uint, err error) error {
	if !db.IsDuplicateKey(err) {
		return err
	}
	if plate != "" && errors.Is(checkPlateFree(s.db, userID, plate, exceptID), ErrDuplicatePlate) {
		return ErrDuplicatePlate
	}
	return ErrDefaultConflict
}

func checkVehicle(v *models.SavedVehicle) error {
	switch {
	case v.Make == "":
		return invalid("make", "is required")
	case v.Model == "":
		return invalid("model", "is required")
	case v.LicensePlate == "":
		return invalid("licensePlate", "is required")
	}
	return nil
}

func applyVehicle(v *models.SavedVehicle, in VehicleInput) {
	if in.Make != nil {
		v.Make = strings.TrimSpace(*in.Make)
	}
	if in.Model != nil {
		v.Model = strings.TrimSpace(*in.Model)
	}
	if in.Year != nil {
		v.Year = *in.Year
	}
	if in.LicensePlate != nil {
		v.LicensePlate = NormalizePlate(*in.LicensePlate)
	}
	if in.Color != nil {
		v.Color = strings.TrimSpace(*in.Color)
	}
	if in.FuelType != nil {
		v.FuelType = strings.TrimSpace(*in.FuelType)
	}
	if in.VehicleType != nil {
		v.VehicleType = strings.TrimSpace(*in.VehicleType)
	}
	if in.IsPrimary != nil {
		v.IsPrimary = *in.IsPrimary
	}
}
