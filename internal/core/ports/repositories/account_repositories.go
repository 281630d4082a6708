package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account, with its line item count, by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts matching the filter, each with its line item count,
	// and the total number of matches.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount inserts a new account. A taken name or code is reported as a ValidationError.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus moves an account from one status to another. It returns
	// ErrConflict when the account no longer has status from.
	UpdateAccountStatus(ctx context.Context, accountID string, from, to domain.AccountStatus, now time.Time) error

	// DeleteAccount removes an account. It returns ErrConflict while line items reference it.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
