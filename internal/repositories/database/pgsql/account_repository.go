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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `a.id, a.account_name, a.account_code, a.account_description, a.account_type, a.account_normal_side, a.status, a.created_at, a.updated_at`

func scanAccount(row pgx.Row, extra ...any) (models.Account, error) {
	var m models.Account
	dest := []any{
		&m.AccountID,
		&m.AccountName,
		&m.AccountCode,
		&m.AccountDescription,
		&m.AccountType,
		&m.AccountNormalSide,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

// FindAccountByID retrieves an account and the number of line items referencing it.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `,
		       (SELECT COUNT(*) FROM disbursement_items di WHERE di.account_id = a.id) AS disbursement_items_count
		FROM accounts a
		WHERE a.id = $1;
	`

	var count int
	m, err := scanAccount(r.pool.QueryRow(ctx, query, accountID), &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	m.LineItemCount = count

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts a WHERE a.id = ANY($1);`

	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves accounts ordered by code, each with its line item count.
// A zero Limit returns every match.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int, error) {
	var conditions []string
	var args []any

	if filter.ActiveOnly {
		args = append(args, string(domain.AccountActive))
		conditions = append(conditions, "a.status = $"+strconv.Itoa(len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		p := "$" + strconv.Itoa(len(args))
		conditions = append(conditions, "(a.account_name ILIKE "+p+" OR a.account_code ILIKE "+p+" OR a.account_description ILIKE "+p+")")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts a`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	query := `
		SELECT ` + accountColumns + `,
		       (SELECT COUNT(*) FROM disbursement_items di WHERE di.account_id = a.id) AS disbursement_items_count
		FROM accounts a` + where + `
		ORDER BY a.account_code, a.id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		var count int
		m, err := scanAccount(rows, &count)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan account row: %w", err)
		}
		m.LineItemCount = count
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating account rows: %w", err)
	}

	return mapping.ToDomainAccountSlice(ms), total, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (id, account_name, account_code, account_description, account_type, account_normal_side, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AccountID,
		m.AccountName,
		m.AccountCode,
		m.AccountDescription,
		m.AccountType,
		m.AccountNormalSide,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			field := takenAccountField(pgErr.ConstraintName)
			return apperrors.NewValidationError(field, fmt.Sprintf("The %s has already been taken.", strings.ReplaceAll(field, "_", " ")))
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// takenAccountField names the request field behind a unique constraint of the accounts table.
func takenAccountField(constraint string) string {
	if strings.Contains(constraint, "account_code") {
		return "account_code"
	}
	return "account_name"
}

// UpdateAccountStatus flips the status only if the row still has status from.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, from, to domain.AccountStatus, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2;
	`
	cmdTag, err := r.pool.Exec(ctx, query, accountID, string(from), string(to), now)
	if err != nil {
		return fmt.Errorf("failed to update status of account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s is no longer %s", apperrors.ErrConflict, accountID, from)
	}
	return nil
}

// DeleteAccount removes an account. The disbursement_items foreign key refuses the
// delete while line items reference it.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1;`, accountID)
	if err != nil {
		if pgErrorCode(err) == pgFKViolation {
			return fmt.Errorf("%w: account %s has associated disbursement items", apperrors.ErrConflict, accountID)
		}
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so search input matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
