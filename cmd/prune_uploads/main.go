// Command prune_uploads deletes staged uploads that were never attached to a disbursement.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/disbursement_app/internal/adapters/storage"
	"github.com/SscSPs/disbursement_app/internal/core/services"
	"github.com/SscSPs/disbursement_app/internal/platform/config"
	"github.com/SscSPs/disbursement_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/disbursement_app/pkg/database"
	"github.com/spf13/pflag"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	flagSet := pflag.NewFlagSet("prune_uploads", pflag.ContinueOnError)
	ttl := flagSet.Duration("ttl", cfg.UploadTTL, "remove uploads staged longer ago than this")
	timeout := flagSet.Duration("timeout", 5*time.Minute, "give up after this long")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logger.Error("Invalid arguments", slog.String("error", err.Error()))
		os.Exit(2)
	}
	if *ttl <= 0 {
		logger.Error("--ttl must be positive", slog.Duration("ttl", *ttl))
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	store, closeStore, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize blob storage", slog.String("error", err.Error()), slog.String("provider", cfg.StorageProvider))
		os.Exit(1)
	}
	defer closeStore()

	repos := pgsql.NewRepositoryProvider(dbPool)
	uploadService := services.NewUploadService(repos.UploadRepo, store, services.WithUploadMaxBytes(cfg.UploadMaxBytes))

	logger.Info("Pruning temporary uploads", slog.Duration("ttl", *ttl))
	result, err := uploadService.PruneUploads(ctx, *ttl)
	if err != nil {
		logger.Error("Prune failed", slog.String("error", err.Error()), slog.Int("removed", result.Removed))
		os.Exit(1)
	}
	logger.Info("Prune finished", slog.Int("removed", result.Removed), slog.Int("failed", result.Failed))
}
