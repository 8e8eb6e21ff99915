package services

import (
	"errors"
	"strings"

	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/models"
	"gorm.io/gorm"
)

// AddressInput carries create and update fields. Nil pointers are left
// unchanged on update.
type AddressInput struct {
	Label       *string `json:"label"`
	FullAddress *string `json:"fullAddress"`
	Landmark    *string `json:"landmark"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Pincode     *string `json:"pincode"`
	IsDefault   *bool   `json:"isDefault"`
}

type AddressService struct {
	db *gorm.DB
}

func NewAddressService(conn *gorm.DB) *AddressService {
	return &AddressService{db: conn}
}

// List returns the user's addresses, default first then newest first.
func (s *AddressService) List(userID uint) ([]models.SavedAddress, error) {
	var addresses []models.SavedAddress
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").Order("id DESC").
		Find(&addresses).Error
	return addresses, err
}

func (s *AddressService) GetDefault(userID uint) (*models.SavedAddress, error) {
	var address models.SavedAddress
	err := s.db.Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *AddressService) Create(userID uint, in AddressInput) (*models.SavedAddress, error) {
	address := models.SavedAddress{UserID: userID}
	applyAddress(&address, in)
	if err := checkAddress(&address); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := unsetDefaultAddresses(tx, userID); err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, addressConflict(err)
	}
	return &address, nil
}

func (s *AddressService) Update(userID, addressID uint, in AddressInput) (*models.SavedAddress, error) {
	var address models.SavedAddress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findOwnedAddress(tx, userID, addressID, &address); err != nil {
			return err
		}
		applyAddress(&address, in)
		if err := checkAddress(&address); err != nil {
			return err
		}
		if address.IsDefault {
			if err := unsetDefaultAddresses(tx, userID); err != nil {
				return err
			}
		}
		return tx.Save(&address).Error
	})
	if err != nil {
		return nil, addressConflict(err)
	}
	return &address, nil
}

func (s *AddressService) Delete(userID, addressID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.SavedAddress{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefault makes addressID the only default address of the user.
func (s *AddressService) SetDefault(userID, addressID uint) (*models.SavedAddress, error) {
	var address models.SavedAddress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findOwnedAddress(tx, userID, addressID, &address); err != nil {
			return err
		}
		if err := unsetDefaultAddresses(tx, userID); err != nil {
			return err
		}
		address.IsDefault = true
		return tx.Model(&address).Update("is_default", true).Error
	})
	if err != nil {
		return nil, addressConflict(err)
	}
	return &address, nil
}

func findOwnedAddress(tx *gorm.DB, userID, addressID uint, dest *models.SavedAddress) error {
	err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAddressNotFound
	}
	return err
}

func unsetDefaultAddresses(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.SavedAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func addressConflict(err error) error {
	if db.IsDuplicateKey(err) {
		return ErrDefaultConflict
	}
	return err
}

// checkAddress enforces the fields a service location needs, after any merge.
func checkAddress(a *models.SavedAddress) error {
	switch {
	case a.FullAddress == "":
		return invalid("fullAddress", "is required")
	case a.City == "":
		return invalid("city", "is required")
	}
	return nil
}

func applyAddress(a *models.SavedAddress, in AddressInput) {
	if in.Label != nil {
		a.Label = strings.TrimSpace(*in.Label)
	}
	if in.FullAddress != nil {
		a.FullAddress = strings.TrimSpace(*in.FullAddress)
	}
	if in.Landmark != nil {
		a.Landmark = strings.TrimSpace(*in.Landmark)
	}
	if in.City != nil {
		a.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		a.State = strings.TrimSpace(*in.State)
	}
	if in.Pincode != nil {
		a.Pincode = strings.TrimSpace(*in.Pincode)
	}
	if in.IsDefault != nil {
		a.IsDefault = *in.IsDefault
	}
}
