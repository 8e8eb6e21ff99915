package db

import (
	"fmt"
	"log/slog"

	"github.com/meinhoongagan/roadside-assist/models"
	"gorm.io/gorm"
)

// partialIndexes back the "at most one flagged row" rules. Both postgres and
// sqlite accept this syntax.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_addresses_one_default
		ON saved_addresses (user_id) WHERE is_default = true`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_vehicles_one_primary
		ON saved_vehicles (user_id) WHERE is_primary = true`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_service_requests_one_pending
		ON service_requests (user_id, mechanic_id) WHERE status = 'pending'`,
}

// Migrate creates or updates every table and the partial unique indexes.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.User{},
		&models.Mechanic{},
		&models.SavedAddress{},
		&models.SavedVehicle{},
		&models.MechanicApplication{},
		&models.ServiceRequest{},
		&models.Booking{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, ddl := range partialIndexes {
		if err := conn.Exec(ddl).Error; err != nil {
			return fmt.Errorf("failed to create partial index: %w", err)
		}
	}

	slog.Info("migrations applied successfully")
	return nil
}
