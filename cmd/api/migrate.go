package main

import (
	"github.com/spf13/cobra"

	"adminlte-api/internal/database"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			defer database.Close(db)

			return database.SafeAutoMigrateWithRetry(db, logger, cfg.Database.MigrateRetries)
		},
	}
}
