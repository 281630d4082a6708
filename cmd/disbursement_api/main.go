package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/SscSPs/disbursement_app/internal/adapters/lock"
	"github.com/SscSPs/disbursement_app/internal/adapters/storage"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	"github.com/SscSPs/disbursement_app/internal/core/services"
	"github.com/SscSPs/disbursement_app/internal/handlers"
	"github.com/SscSPs/disbursement_app/internal/middleware"
	"github.com/SscSPs/disbursement_app/internal/platform/config"
	"github.com/SscSPs/disbursement_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/disbursement_app/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title Disbursement API
// @version 1.0
// @description Disbursement voucher submission and multi-step approval.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Error("Database migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	store, closeStore, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize blob storage", slog.String("error", err.Error()), slog.String("provider", cfg.StorageProvider))
		os.Exit(1)
	}
	defer closeStore()

	locker, closeLocker, err := newTransitionLocker(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize transition locker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeLocker()

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), store, locker)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if corsHandler, ok := middleware.CORS(cfg.CORSAllowedOrigins, cfg.IsProduction); ok {
		r.Use(corsHandler)
	} else {
		logger.Warn("CORS_ALLOWED_ORIGINS is empty, cross-origin requests are not allowed")
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newTransitionLocker returns a Redis backed locker when REDIS_URL is set.
func newTransitionLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.TransitionLocker, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, transitions rely on database row locks only")
		return lock.NoopLocker{}, func() {}, nil
	}

	rdb, err := lock.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Redis transition locks enabled", slog.Duration("ttl", cfg.TransitionLockTTL))
	return lock.NewRedisLocker(rdb, cfg.TransitionLockTTL), closeQuietly(rdb), nil
}

func closeQuietly(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			slog.Warn("Error closing resource", slog.String("error", err.Error()))
		}
	}
}
