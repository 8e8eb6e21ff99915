package cron

import (
	"time"

	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const purgeSpec = "@every 15m"

// StartCronJobs starts the housekeeping scheduler. The caller stops it on
// shutdown.
func StartCronJobs(conn *gorm.DB) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(purgeSpec, func() {
		cleared, err := PurgeExpired(conn, time.Now())
		if err != nil {
			logger.Error("purge of expired tokens failed", "error", err)
			return
		}
		if cleared > 0 {
			logger.Info("purged expired tokens", "rows", cleared)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Info("cron scheduler started", "job", "purge-expired-tokens", "spec", purgeSpec)
	return c, nil
}

// PurgeExpired clears verification tokens and reset OTPs that expired before
// now on both account tables. It returns the number of rows touched.
func PurgeExpired(conn *gorm.DB, now time.Time) (int64, error) {
	var total int64
	for _, model := range []any{&models.User{}, &models.Mechanic{}} {
		res := conn.Model(model).
			Where("verification_expires_at IS NOT NULL AND verification_expires_at < ?", now).
			Updates(map[string]any{"verification_token": "", "verification_expires_at": nil})
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected

		res = conn.Model(model).
			Where("reset_otp_expires_at IS NOT NULL AND reset_otp_expires_at < ?", now).
			Updates(map[string]any{"reset_otp": "", "reset_otp_expires_at": nil, "reset_otp_attempts": 0})
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
	}
	return total, nil
}
