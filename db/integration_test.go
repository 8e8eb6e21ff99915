//go:build integration

package db_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func postgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("roadside"),
		postgres.WithUsername("roadside"),
		postgres.WithPassword("roadside"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := db.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn
}

func TestPostgresPendingRequestRace(t *testing.T) {
	conn := postgresDB(t)

	user := models.User{Account: models.Account{Name: "u", Email: "u@example.com", Password: "x"}}
	mech := models.Mechanic{Account: models.Account{Name: "m", Email: "m@example.com", Password: "x"}}
	require.NoError(t, conn.Create(&user).Error)
	require.NoError(t, conn.Create(&mech).Error)

	var ok, dup atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			err := conn.Create(&models.ServiceRequest{
				UserID: user.ID, MechanicID: mech.ID,
				ProblemType: "Flat", ServiceType: "Tire Services",
				Status: models.RequestPending,
			}).Error
			switch {
			case err == nil:
				ok.Add(1)
			case db.IsDuplicateKey(err):
				dup.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 7, dup.Load())

	// Leaving pending frees the slot.
	require.NoError(t, conn.Model(&models.ServiceRequest{}).
		Where("user_id = ? AND mechanic_id = ?", user.ID, mech.ID).
		Updates(map[string]any{"status": models.RequestAccepted, "accepted_at": time.Now()}).Error)
	require.NoError(t, conn.Create(&models.ServiceRequest{
		UserID: user.ID, MechanicID: mech.ID, ProblemType: "Flat", ServiceType: "Tire Services",
		Status: models.RequestPending,
	}).Error)
}

func TestPostgresSingleDefaultAddress(t *testing.T) {
	conn := postgresDB(t)

	user := models.User{Account: models.Account{Name: "u", Email: "addr@example.com", Password: "x"}}
	require.NoError(t, conn.Create(&user).Error)

	first := models.SavedAddress{UserID: user.ID, FullAddress: "1 A St", City: "Pune", IsDefault: true}
	require.NoError(t, conn.Create(&first).Error)

	second := models.SavedAddress{UserID: user.ID, FullAddress: "2 B St", City: "Pune", IsDefault: true}
	err := conn.Create(&second).Error
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKey(err))
}

func TestPostgresDirectoryServiceFilterIsCaseSensitive(t *testing.T) {
	conn := postgresDB(t)
	ctx := context.Background()

	mech := models.Mechanic{Account: models.Account{Name: "m", Email: "dir@example.com", Password: "x"}}
	require.NoError(t, conn.Create(&mech).Error)
	require.NoError(t, conn.Create(&models.MechanicApplication{
		MechanicID: mech.ID, BusinessName: "Garage", OwnerName: "Owner", City: "Pune",
		VehicleSpecialization: models.SpecializationBoth,
		ServicesProvided:      models.StringList{"Tire Services", "Battery Jump"},
		Status:                models.ApplicationApproved,
	}).Error)

	dir := services.NewDirectoryService(conn, nil, 0)
	for service, want := range map[string]int64{
		"Tire Services": 1,
		"tire services": 0,
		"Tire":          0,
		"Battery Jump":  1,
	} {
		page, err := dir.Browse(ctx, services.DirectoryQuery{Service: service})
		require.NoError(t, err)
		assert.Equal(t, want, page.Pagination.Total, service)
	}

	page, err := dir.Browse(ctx, services.DirectoryQuery{City: "pune"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Pagination.Total)
}
