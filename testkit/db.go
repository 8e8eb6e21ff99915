// Package testkit holds helpers shared by package tests.
package testkit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DB returns a migrated in-memory sqlite database private to t.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	conn, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return conn
}

// Password is the plain text password of every account created here.
const Password = "secret123"

func hash(t testing.TB) string {
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// User inserts a verified user.
func User(t testing.TB, conn *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Account: models.Account{
		Name: "User " + email, Email: email, Phone: "9000000001",
		Password: hash(t), IsVerified: true,
	}}
	require.NoError(t, conn.Create(u).Error)
	return u
}

// Mechanic inserts a verified mechanic.
func Mechanic(t testing.TB, conn *gorm.DB, email string) *models.Mechanic {
	t.Helper()
	m := &models.Mechanic{
		Account: models.Account{
			Name: "Mechanic " + email, Email: email, Phone: "9000000002",
			Password: hash(t), IsVerified: true,
		},
		StoreName: "Garage " + email,
	}
	require.NoError(t, conn.Create(m).Error)
	return m
}

// Application inserts an application for mechanicID with the given status.
func Application(t testing.TB, conn *gorm.DB, mechanicID uint, status models.ApplicationStatus, mutate ...func(*models.MechanicApplication)) *models.MechanicApplication {
	t.Helper()
	a := &models.MechanicApplication{
		MechanicID:            mechanicID,
		BusinessName:          fmt.Sprintf("Garage %d", mechanicID),
		OwnerName:             "Owner",
		City:                  "Pune",
		ExperienceYears:       5,
		VehicleSpecialization: models.SpecializationBoth,
		ServicesProvided:      models.StringList{"Tire Services"},
		Status:                status,
	}
	for _, fn := range mutate {
		fn(a)
	}
	require.NoError(t, conn.Create(a).Error)
	return a
}

// DefaultAddress inserts a default address for userID.
func DefaultAddress(t testing.TB, conn *gorm.DB, userID uint) *models.SavedAddress {
	t.Helper()
	a := &models.SavedAddress{
		UserID: userID, Label: "Home", FullAddress: "12 MG Road",
		City: "Pune", State: "MH", Pincode: "411001", IsDefault: true,
	}
	require.NoError(t, conn.Create(a).Error)
	return a
}
