package models

import "time"

type Role string

const (
	RoleUser     Role = "user"
	RoleMechanic Role = "mechanic"
)

// Account holds the identity fields shared by users and mechanics.
type Account struct {
	Name                  string     `json:"name" gorm:"not null"`
	Email                 string     `json:"email" gorm:"uniqueIndex;not null"`
	Phone                 string     `json:"phone"`
	Password              string     `json:"-" gorm:"not null"`
	IsVerified            bool       `json:"isVerified" gorm:"not null;default:false"`
	VerificationToken     string     `json:"-" gorm:"index"`
	VerificationExpiresAt *time.Time `json:"-"`
	ResetOTP              string     `json:"-"`
	ResetOTPExpiresAt     *time.Time `json:"-"`
	ResetOTPAttempts      int        `json:"-" gorm:"not null;default:0"`
	ProfileImage          string     `json:"profileImage,omitempty"`
}

// Contact is the public view of an account shown to the other party.
type Contact struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// ContactColumns are the columns selected when joining a counterpart.
var ContactColumns = []string{"id", "name", "email", "phone", "profile_image"}

type User struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	Account   `gorm:"embedded"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Contact() Contact {
	return Contact{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, ProfileImage: u.ProfileImage}
}

// Mechanic is a separate identity space from User.
type Mechanic struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	Account   `gorm:"embedded"`
	StoreName string    `json:"storeName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Mechanic) Contact() Contact {
	return Contact{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone, ProfileImage: m.ProfileImage}
}
