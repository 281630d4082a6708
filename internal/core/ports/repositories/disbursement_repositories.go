package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DisbursementReader defines read operations for disbursement data
type DisbursementReader interface {
	// FindDisbursementByID retrieves a disbursement header by its unique identifier.
	FindDisbursementByID(ctx context.Context, disbursementID string) (*domain.Disbursement, error)

	// ListDisbursements retrieves one page of disbursements (with total amounts), the filtered
	// count and the per-status statistics.
	ListDisbursements(ctx context.Context, filter domain.DisbursementFilter) (*domain.DisbursementPage, error)

	// FindLineItemsByDisbursementID retrieves the line items ordered by order number, with their accounts.
	FindLineItemsByDisbursementID(ctx context.Context, disbursementID string) ([]domain.LineItem, error)

	// FindTrackingByDisbursementID retrieves the tracking entries ordered by step.
	FindTrackingByDisbursementID(ctx context.Context, disbursementID string) ([]domain.TrackingEntry, error)

	// FindAttachmentsByDisbursementID retrieves the attachments bound to a disbursement.
	FindAttachmentsByDisbursementID(ctx context.Context, disbursementID string) ([]domain.Attachment, error)

	// FindAttachmentByID retrieves a single attachment.
	FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error)
}

// DisbursementTransactionSupport defines operations that run inside a caller-owned transaction
type DisbursementTransactionSupport interface {
	// FindDisbursementByIDForUpdate reads the disbursement header and locks its row.
	FindDisbursementByIDForUpdate(ctx context.Context, tx pgx.Tx, disbursementID string) (*domain.Disbursement, error)

	// SaveDisbursementInTx inserts a disbursement header. A control number collision
	// returns apperrors.ErrDuplicate and leaves tx usable.
	SaveDisbursementInTx(ctx context.Context, tx pgx.Tx, disbursement domain.Disbursement) error

	// SaveLineItemsInTx inserts all line items of a disbursement.
	SaveLineItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.LineItem) error

	// SaveAttachmentInTx inserts one attachment row.
	SaveAttachmentInTx(ctx context.Context, tx pgx.Tx, attachment domain.Attachment) error

	// AppendTrackingInTx appends a tracking entry. A second entry for the same step
	// returns apperrors.ErrConflict.
	AppendTrackingInTx(ctx context.Context, tx pgx.Tx, entry domain.TrackingEntry) error

	// UpdateDisbursementStateInTx moves a pending disbursement from fromStep to the new
	// step and status. It returns apperrors.ErrConflict when the row is no longer at
	// fromStep or no longer pending.
	UpdateDisbursementStateInTx(ctx context.Context, tx pgx.Tx, disbursementID string, fromStep int, toStep int, toStatus domain.Status, now time.Time) error
}

// DisbursementRepositoryFacade combines all disbursement-related repository interfaces
type DisbursementRepositoryFacade interface {
	DisbursementReader
	DisbursementTransactionSupport
}

// DisbursementRepositoryWithTx extends DisbursementRepositoryFacade with transaction capabilities
type DisbursementRepositoryWithTx interface {
	DisbursementRepositoryFacade
	TransactionManager
}
