package services

import (
	"context"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// ListAccounts retrieves accounts matching params and the total number of matches.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, int, error)

	// GetAccountsByIDs retrieves multiple accounts by their IDs.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

// AccountWriterSvc defines write operations on the account registry
type AccountWriterSvc interface {
	// CreateAccount registers a new active account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error)

	// DeleteAccount removes an account that no line item references.
	DeleteAccount(ctx context.Context, accountID string, actor domain.Actor) error

	// ToggleAccountStatus flips the account between active and inactive.
	ToggleAccountStatus(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
