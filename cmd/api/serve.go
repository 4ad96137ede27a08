package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adminlte-api/internal/config"
	"adminlte-api/internal/database"
	"adminlte-api/internal/job"
	"adminlte-api/internal/metrics"
	"adminlte-api/internal/repository"
	"adminlte-api/internal/router"
)

const (
	dbStatsInterval  = 15 * time.Second
	entityStatsEvery = 30 * time.Second
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	logger.Info("Starting AdminLTE API",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.Bool("auth_required", cfg.Auth.Required),
	)

	m := metrics.New()

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		return fmt.Errorf("failed to register metrics callbacks: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.SafeAutoMigrateWithRetry(db, logger, cfg.Database.MigrateRetries); err != nil {
			return err
		}
	}

	stopStats := database.StartDBStatsCollector(db, m, dbStatsInterval)
	defer close(stopStats)

	users, err := repository.NewUserRepository(db)
	if err != nil {
		return err
	}
	roles, err := repository.NewRoleRepository(db)
	if err != nil {
		return err
	}

	collector := metrics.NewEntityMetricsCollector(m, logger, entityStatsEvery, users, roles)
	collector.Start()
	defer collector.Stop()

	if cfg.Purge.Enabled {
		purge := job.NewPurgeJob(cfg.Purge.Retention, m, logger, users, roles)
		if err := purge.Start(cfg.Purge.Schedule); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			purge.Stop(stopCtx)
		}()
	}

	r, err := router.Setup(router.Config{
		DB:             db,
		Logger:         logger,
		Metrics:        m,
		BasePath:       cfg.Server.BasePath,
		JWTSecret:      cfg.Auth.JWTSecret,
		AuthRequired:   cfg.Auth.Required,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("AdminLTE API started successfully", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited gracefully")
	return nil
}
