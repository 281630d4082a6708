package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	"github.com/SscSPs/disbursement_app/internal/models"
	"github.com/SscSPs/disbursement_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTemporaryUploadRepository struct {
	pool *pgxpool.Pool
}

func newPgxTemporaryUploadRepository(pool *pgxpool.Pool) portsrepo.TemporaryUploadRepositoryFacade {
	return &PgxTemporaryUploadRepository{pool: pool}
}

var _ portsrepo.TemporaryUploadRepositoryFacade = (*PgxTemporaryUploadRepository)(nil)

func findUpload(ctx context.Context, q queryRower, query, folder string) (*domain.TemporaryUpload, error) {
	var m models.TemporaryUpload
	if err := q.QueryRow(ctx, query, folder).Scan(&m.Folder, &m.Filename, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: upload %s", apperrors.ErrNotFound, folder)
		}
		return nil, fmt.Errorf("failed to find upload %s: %w", folder, err)
	}
	u := mapping.ToDomainTemporaryUpload(m)
	return &u, nil
}

// FindUploadByFolder retrieves the staging record for a folder.
func (r *PgxTemporaryUploadRepository) FindUploadByFolder(ctx context.Context, folder string) (*domain.TemporaryUpload, error) {
	return findUpload(ctx, r.pool, `SELECT folder, filename, created_at FROM temporary_uploads WHERE folder = $1;`, folder)
}

// FindUploadByFolderInTx locks the staging record so two submissions cannot claim it.
func (r *PgxTemporaryUploadRepository) FindUploadByFolderInTx(ctx context.Context, tx pgx.Tx, folder string) (*domain.TemporaryUpload, error) {
	return findUpload(ctx, tx, `SELECT folder, filename, created_at FROM temporary_uploads WHERE folder = $1 FOR UPDATE;`, folder)
}

// ListUploadsOlderThan retrieves staging records created before cutoff, oldest first.
func (r *PgxTemporaryUploadRepository) ListUploadsOlderThan(ctx context.Context, cutoff time.Time) ([]domain.TemporaryUpload, error) {
	query := `
		SELECT folder, filename, created_at
		FROM temporary_uploads
		WHERE created_at < $1
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale uploads: %w", err)
	}
	defer rows.Close()

	var uploads []domain.TemporaryUpload
	for rows.Next() {
		var m models.TemporaryUpload
		if err := rows.Scan(&m.Folder, &m.Filename, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		uploads = append(uploads, mapping.ToDomainTemporaryUpload(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upload rows: %w", err)
	}
	return uploads, nil
}

// SaveUpload persists a new staging record.
func (r *PgxTemporaryUploadRepository) SaveUpload(ctx context.Context, upload domain.TemporaryUpload) error {
	query := `INSERT INTO temporary_uploads (folder, filename, created_at) VALUES ($1, $2, $3);`
	if _, err := r.pool.Exec(ctx, query, upload.Folder, upload.Filename, upload.CreatedAt); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: upload folder %s", apperrors.ErrDuplicate, upload.Folder)
		}
		return fmt.Errorf("failed to save upload %s: %w", upload.Folder, err)
	}
	return nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func deleteUpload(ctx context.Context, e execer, folder string) error {
	cmdTag, err := e.Exec(ctx, `DELETE FROM temporary_uploads WHERE folder = $1;`, folder)
	if err != nil {
		return fmt.Errorf("failed to delete upload %s: %w", folder, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: upload %s", apperrors.ErrNotFound, folder)
	}
	return nil
}

// DeleteUpload removes a staging record.
func (r *PgxTemporaryUploadRepository) DeleteUpload(ctx context.Context, folder string) error {
	return deleteUpload(ctx, r.pool, folder)
}

// DeleteUploadInTx removes a staging record within a transaction.
func (r *PgxTemporaryUploadRepository) DeleteUploadInTx(ctx context.Context, tx pgx.Tx, folder string) error {
	return deleteUpload(ctx, tx, folder)
}
