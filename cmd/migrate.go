package cmd

import (
	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and partial unique indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := db.Migrate(e.conn); err != nil {
			return err
		}
		logger.Info("migration complete", "driver", e.cfg.DBDriver)
		return nil
	},
}
