package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	"github.com/SscSPs/disbursement_app/internal/models"
	"github.com/SscSPs/disbursement_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxDisbursementRepository struct {
	BaseRepository
}

// newPgxDisbursementRepository creates a new repository for disbursements and their children.
func newPgxDisbursementRepository(pool *pgxpool.Pool) portsrepo.DisbursementRepositoryWithTx {
	return &PgxDisbursementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DisbursementRepositoryWithTx = (*PgxDisbursementRepository)(nil)

const disbursementColumns = `d.id, d.control_number, d.title, d.description, d.step, d.status, d.created_by, d.created_at, d.updated_at`

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[domain.DisbursementSortField]string{
	domain.SortByCreatedAt:     "d.created_at",
	domain.SortByControlNumber: "d.control_number",
	domain.SortByTitle:         "d.title",
	domain.SortByStatus:        "d.status",
	domain.SortByStep:          "d.step",
}

func scanDisbursement(row pgx.Row, extra ...any) (models.Disbursement, error) {
	var m models.Disbursement
	dest := []any{
		&m.DisbursementID,
		&m.ControlNumber,
		&m.Title,
		&m.Description,
		&m.Step,
		&m.Status,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

// queryRower is satisfied by both *pgxpool.Pool and pgx.Tx.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func findDisbursement(ctx context.Context, q queryRower, query, disbursementID string) (*domain.Disbursement, error) {
	m, err := scanDisbursement(q.QueryRow(ctx, query, disbursementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: disbursement %s", apperrors.ErrNotFound, disbursementID)
		}
		return nil, apperrors.NewAppError(500, "failed to find disbursement "+disbursementID, err)
	}
	d := mapping.ToDomainDisbursement(m)
	return &d, nil
}

// FindDisbursementByID retrieves a disbursement header by its ID.
func (r *PgxDisbursementRepository) FindDisbursementByID(ctx context.Context, disbursementID string) (*domain.Disbursement, error) {
	query := `SELECT ` + disbursementColumns + ` FROM disbursements d WHERE d.id = $1;`
	return findDisbursement(ctx, r.Pool, query, disbursementID)
}

// FindDisbursementByIDForUpdate reads the header and holds its row lock until tx ends.
func (r *PgxDisbursementRepository) FindDisbursementByIDForUpdate(ctx context.Context, tx pgx.Tx, disbursementID string) (*domain.Disbursement, error) {
	query := `SELECT ` + disbursementColumns + ` FROM disbursements d WHERE d.id = $1 FOR UPDATE;`
	return findDisbursement(ctx, tx, query, disbursementID)
}

// ListDisbursements returns one page of disbursements matching filter. Statistics cover
// every disbursement regardless of filter.
func (r *PgxDisbursementRepository) ListDisbursements(ctx context.Context, filter domain.DisbursementFilter) (*domain.DisbursementPage, error) {
	var conditions []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		p := next("%" + escapeLike(search) + "%")
		conditions = append(conditions, "(d.control_number ILIKE "+p+" OR d.title ILIKE "+p+" OR d.description ILIKE "+p+")")
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "d.created_at >= "+next(startOfDay(*filter.DateFrom)))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "d.created_at < "+next(startOfDay(*filter.DateTo).AddDate(0, 0, 1)))
	}
	if filter.Status != nil {
		conditions = append(conditions, "d.status = "+next(string(*filter.Status)))
	}
	if filter.Step != nil {
		conditions = append(conditions, "d.step = "+next(*filter.Step))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := &domain.DisbursementPage{Disbursements: []domain.Disbursement{}}
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM disbursements d`+where, args...).Scan(&page.Total); err != nil {
		return nil, apperrors.NewAppError(500, "failed to count disbursements", err)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[domain.SortByCreatedAt]
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := `
		SELECT ` + disbursementColumns + `,
		       (SELECT COALESCE(SUM(di.amount), 0) FROM disbursement_items di WHERE di.disbursement_id = d.id) AS total_amount
		FROM disbursements d` + where + `
		ORDER BY ` + column + ` ` + direction + `, d.id ` + direction
	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit) + " OFFSET " + next(filter.Offset)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list disbursements", err)
	}
	defer rows.Close()

	for rows.Next() {
		var total decimal.Decimal
		m, err := scanDisbursement(rows, &total)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan disbursement row", err)
		}
		m.TotalAmount = total
		page.Disbursements = append(page.Disbursements, mapping.ToDomainDisbursement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating disbursement rows", err)
	}

	stats, err := r.statistics(ctx)
	if err != nil {
		return nil, err
	}
	page.Statistics = stats
	return page, nil
}

func (r *PgxDisbursementRepository) statistics(ctx context.Context) (domain.DisbursementStatistics, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'rejected')
		FROM disbursements;
	`
	var s domain.DisbursementStatistics
	if err := r.Pool.QueryRow(ctx, query).Scan(&s.Total, &s.Pending, &s.Approved, &s.Rejected); err != nil {
		return s, apperrors.NewAppError(500, "failed to compute disbursement statistics", err)
	}
	return s, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FindLineItemsByDisbursementID retrieves line items with their accounts, in entry order.
func (r *PgxDisbursementRepository) FindLineItemsByDisbursementID(ctx context.Context, disbursementID string) ([]domain.LineItem, error) {
	query := `
		SELECT di.id, di.disbursement_id, di.account_id, di.type, di.amount, di.order_number, di.created_at,
		       ` + accountColumns + `
		FROM disbursement_items di
		JOIN accounts a ON a.id = di.account_id
		WHERE di.disbursement_id = $1
		ORDER BY di.order_number, di.id;
	`
	rows, err := r.Pool.Query(ctx, query, disbursementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for disbursement "+disbursementID, err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		var m models.DisbursementItem
		var acc models.Account
		err := rows.Scan(
			&m.ItemID,
			&m.DisbursementID,
			&m.AccountID,
			&m.Type,
			&m.Amount,
			&m.OrderNumber,
			&m.CreatedAt,
			&acc.AccountID,
			&acc.AccountName,
			&acc.AccountCode,
			&acc.AccountDescription,
			&acc.AccountType,
			&acc.AccountNormalSide,
			&acc.Status,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row", err)
		}
		m.Account = &acc
		items = append(items, mapping.ToDomainLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows", err)
	}
	return items, nil
}

// FindTrackingByDisbursementID retrieves the tracking entries ordered by step.
func (r *PgxDisbursementRepository) FindTrackingByDisbursementID(ctx context.Context, disbursementID string) ([]domain.TrackingEntry, error) {
	query := `
		SELECT id, disbursement_id, handled_by, step, role, action, remarks, acted_at, created_at
		FROM disbursement_tracking
		WHERE disbursement_id = $1
		ORDER BY step;
	`
	rows, err := r.Pool.Query(ctx, query, disbursementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tracking for disbursement "+disbursementID, err)
	}
	defer rows.Close()

	entries := []domain.TrackingEntry{}
	for rows.Next() {
		var m models.DisbursementTracking
		if err := rows.Scan(&m.TrackingID, &m.DisbursementID, &m.HandledBy, &m.Step, &m.Role, &m.Action, &m.Remarks, &m.ActedAt, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tracking row", err)
		}
		entries = append(entries, mapping.ToDomainTracking(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tracking rows", err)
	}
	return entries, nil
}

const attachmentColumns = `id, disbursement_id, file_path, file_name, file_type, created_at`

func scanAttachment(row pgx.Row) (models.DisbursementAttachment, error) {
	var m models.DisbursementAttachment
	err := row.Scan(&m.AttachmentID, &m.DisbursementID, &m.FilePath, &m.FileName, &m.FileType, &m.CreatedAt)
	return m, err
}

// FindAttachmentsByDisbursementID retrieves the attachments bound to a disbursement.
func (r *PgxDisbursementRepository) FindAttachmentsByDisbursementID(ctx context.Context, disbursementID string) ([]domain.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM disbursement_attachments WHERE disbursement_id = $1 ORDER BY created_at, id;`
	rows, err := r.Pool.Query(ctx, query, disbursementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query attachments for disbursement "+disbursementID, err)
	}
	defer rows.Close()

	attachments := []domain.Attachment{}
	for rows.Next() {
		m, err := scanAttachment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan attachment row", err)
		}
		attachments = append(attachments, mapping.ToDomainAttachment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating attachment rows", err)
	}
	return attachments, nil
}

// FindAttachmentByID retrieves a single attachment.
func (r *PgxDisbursementRepository) FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM disbursement_attachments WHERE id = $1;`
	m, err := scanAttachment(r.Pool.QueryRow(ctx, query, attachmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: attachment %s", apperrors.ErrNotFound, attachmentID)
		}
		return nil, apperrors.NewAppError(500, "failed to find attachment "+attachmentID, err)
	}
	a := mapping.ToDomainAttachment(m)
	return &a, nil
}

// SaveDisbursementInTx inserts the header inside a savepoint so a control number
// collision can be retried on the same transaction.
func (r *PgxDisbursementRepository) SaveDisbursementInTx(ctx context.Context, tx pgx.Tx, disbursement domain.Disbursement) error {
	m := mapping.ToModelDisbursement(disbursement)
	query := `
		INSERT INTO disbursements (id, control_number, title, description, step, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	sp, err := tx.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to create savepoint", err)
	}

	_, err = sp.Exec(ctx, query,
		m.DisbursementID,
		m.ControlNumber,
		m.Title,
		m.Description,
		m.Step,
		m.Status,
		m.CreatedBy,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		_ = sp.Rollback(ctx)
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: control number %s", apperrors.ErrDuplicate, m.ControlNumber)
		}
		return apperrors.NewAppError(500, "failed to insert disbursement "+m.DisbursementID, err)
	}

	if err := sp.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to release savepoint", err)
	}
	return nil
}

// SaveLineItemsInTx inserts all line items in one batch.
func (r *PgxDisbursementRepository) SaveLineItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO disbursement_items (id, disbursement_id, account_id, type, amount, order_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		m := mapping.ToModelDisbursementItem(item)
		batch.Queue(query, m.ItemID, m.DisbursementID, m.AccountID, m.Type, m.Amount, m.OrderNumber, m.CreatedAt)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if pgErrorCode(err) == pgFKViolation {
			return fmt.Errorf("%w: line item references an unknown account", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(500, "failed to insert line items", err)
	}
	return nil
}

// SaveAttachmentInTx inserts one attachment row.
func (r *PgxDisbursementRepository) SaveAttachmentInTx(ctx context.Context, tx pgx.Tx, attachment domain.Attachment) error {
	m := mapping.ToModelAttachment(attachment)
	query := `
		INSERT INTO disbursement_attachments (id, disbursement_id, file_path, file_name, file_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := tx.Exec(ctx, query, m.AttachmentID, m.DisbursementID, m.FilePath, m.FileName, m.FileType, m.CreatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to insert attachment "+m.AttachmentID, err)
	}
	return nil
}

// AppendTrackingInTx inserts a tracking entry. The (disbursement_id, step) unique index
// turns a duplicate decision into ErrConflict.
func (r *PgxDisbursementRepository) AppendTrackingInTx(ctx context.Context, tx pgx.Tx, entry domain.TrackingEntry) error {
	m := mapping.ToModelTracking(entry)
	query := `
		INSERT INTO disbursement_tracking (id, disbursement_id, handled_by, step, role, action, remarks, acted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, query, m.TrackingID, m.DisbursementID, m.HandledBy, m.Step, m.Role, m.Action, m.Remarks, m.ActedAt, m.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: step %d of disbursement %s already decided", apperrors.ErrConflict, m.Step, m.DisbursementID)
		}
		return apperrors.NewAppError(500, "failed to insert tracking for disbursement "+m.DisbursementID, err)
	}
	return nil
}

// UpdateDisbursementStateInTx moves a pending disbursement off fromStep.
func (r *PgxDisbursementRepository) UpdateDisbursementStateInTx(ctx context.Context, tx pgx.Tx, disbursementID string, fromStep int, toStep int, toStatus domain.Status, now time.Time) error {
	query := `
		UPDATE disbursements
		SET step = $3,
		    status = $4,
		    updated_at = $5
		WHERE id = $1 AND step = $2 AND status = 'pending';
	`
	cmdTag, err := tx.Exec(ctx, query, disbursementID, fromStep, toStep, string(toStatus), now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update disbursement "+disbursementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: disbursement %s is no longer pending at step %d", apperrors.ErrConflict, disbursementID, fromStep)
	}
	return nil
}
