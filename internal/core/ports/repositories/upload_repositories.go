package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TemporaryUploadReader defines read operations for staged uploads
type TemporaryUploadReader interface {
	// FindUploadByFolder retrieves the staging record for a folder.
	FindUploadByFolder(ctx context.Context, folder string) (*domain.TemporaryUpload, error)

	// FindUploadByFolderInTx is FindUploadByFolder within a transaction.
	FindUploadByFolderInTx(ctx context.Context, tx pgx.Tx, folder string) (*domain.TemporaryUpload, error)

	// ListUploadsOlderThan retrieves staging records created before cutoff.
	ListUploadsOlderThan(ctx context.Context, cutoff time.Time) ([]domain.TemporaryUpload, error)
}

// TemporaryUploadWriter defines write operations for staged uploads
type TemporaryUploadWriter interface {
	// SaveUpload persists a new staging record.
	SaveUpload(ctx context.Context, upload domain.TemporaryUpload) error

	// DeleteUpload removes a staging record.
	DeleteUpload(ctx context.Context, folder string) error

	// DeleteUploadInTx removes a staging record within a transaction.
	DeleteUploadInTx(ctx context.Context, tx pgx.Tx, folder string) error
}

// TemporaryUploadRepositoryFacade combines all staging repository interfaces
type TemporaryUploadRepositoryFacade interface {
	TemporaryUploadReader
	TemporaryUploadWriter
}
