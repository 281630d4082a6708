// Package storage selects the blob store backend named by the configuration.
package storage

import (
	"context"
	"log/slog"

	"github.com/SscSPs/disbursement_app/internal/adapters/storage/gcs"
	"github.com/SscSPs/disbursement_app/internal/adapters/storage/local"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	"github.com/SscSPs/disbursement_app/internal/platform/config"
)

// New returns the configured blob store and a function releasing its resources.
func New(ctx context.Context, cfg *config.Config) (ports.BlobStore, func(), error) {
	if cfg.StorageProvider == config.StorageGCS {
		store, err := gcs.New(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Warn("Error closing blob storage", slog.String("error", err.Error()))
			}
		}, nil
	}

	store, err := local.NewOS(cfg.StorageLocalRoot)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
