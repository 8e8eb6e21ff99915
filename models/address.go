package models

import (
	"strings"
	"time"
)

// SavedAddress is a service location owned by a user. At most one address
// per user has IsDefault set (partial unique index, see db.Migrate).
type SavedAddress struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"not null;index"`
	Label       string    `json:"label"`
	FullAddress string    `json:"fullAddress" gorm:"not null"`
	Landmark    string    `json:"landmark"`
	City        string    `json:"city" gorm:"not null"`
	State       string    `json:"state"`
	Pincode     string    `json:"pincode"`
	IsDefault   bool      `json:"isDefault" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Text renders the address as a single line.
func (a *SavedAddress) Text() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.FullAddress, a.Landmark, a.City, a.State, a.Pincode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
