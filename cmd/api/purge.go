package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adminlte-api/internal/database"
	"adminlte-api/internal/job"
	"adminlte-api/internal/repository"
)

func newPurgeCmd(configPath *string) *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Physically delete soft-deleted rows older than the retention window once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if retention <= 0 {
				retention = cfg.Purge.Retention
			}

			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			defer database.Close(db)

			users, err := repository.NewUserRepository(db)
			if err != nil {
				return err
			}
			roles, err := repository.NewRoleRepository(db)
			if err != nil {
				return err
			}

			purged, err := job.NewPurgeJob(retention, nil, logger, users, roles).RunOnce(cmd.Context())
			for table, n := range purged {
				logger.Info("Purged", zap.String("table", table), zap.Int64("rows", n))
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "override the configured retention window")
	return cmd
}
