package router

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"adminlte-api/internal/database"
	"adminlte-api/internal/handler"
	"adminlte-api/internal/metrics"
	"adminlte-api/internal/middleware"
	"adminlte-api/internal/repository"
	"adminlte-api/internal/service"
)

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer // nil serves the default registry
	BasePath       string
	JWTSecret      string
	AuthRequired   bool
	AllowedOrigins []string
}

// Setup creates and configures the router
func Setup(cfg Config) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	users, err := repository.NewUserRepository(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("user repository: %w", err)
	}
	roles, err := repository.NewRoleRepository(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("role repository: %w", err)
	}

	var overflow service.OverflowRecorder
	if cfg.Metrics != nil {
		overflow = cfg.Metrics
	}
	userService := service.NewUserService(users, roles, cfg.Logger, overflow)
	roleService := service.NewRoleService(roles, cfg.Logger)

	userHandler := handler.NewUserHandler(userService, cfg.Logger)
	roleHandler := handler.NewRoleHandler(roleService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, cfg.DB)
	}, cfg.Logger)

	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Compress())

	metricsHandler := gin.WrapH(promhttp.Handler())
	if cfg.Gatherer != nil {
		metricsHandler = gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Probes and metrics (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)

	api := r.Group(cfg.BasePath)
	api.Use(middleware.NewActorResolver(cfg.JWTSecret, cfg.AuthRequired).Middleware())
	{
		userRoutes := api.Group("/users")
		{
			userRoutes.GET("", userHandler.ListUsers)
			userRoutes.GET("/count", userHandler.CountUsers)
			userRoutes.GET("/:id", userHandler.GetUser)
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.PUT("", userHandler.UpsertUser)
			userRoutes.PUT("/:id", userHandler.ReplaceUser)
			userRoutes.PATCH("/:id", userHandler.PatchUser)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}

		roleRoutes := api.Group("/roles")
		{
			roleRoutes.GET("", roleHandler.ListRoles)
			roleRoutes.GET("/:id", roleHandler.GetRole)
			roleRoutes.POST("", roleHandler.CreateRole)
			roleRoutes.DELETE("/:id", roleHandler.DeleteRole)
		}
	}

	return r, nil
}
