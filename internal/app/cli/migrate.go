package cli

import (
	"github.com/spf13/cobra"

	"paywall-app/config"
	"paywall-app/database"
	"paywall-app/internal/shared/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := config.LoadDatabaseURL()
			if err != nil {
				return err
			}
			log := logger.New(logger.Options{})

			db, err := database.Init(dsn)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info("migration completed")
			return nil
		},
	}
}
