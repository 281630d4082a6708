package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/SscSPs/disbursement_app/internal/utils/pagination"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account registry service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// ListAccounts returns one page of accounts, or every active account when params.All is set.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, int, error) {
	filter := domain.AccountFilter{Search: params.Search, ActiveOnly: params.All}
	if !params.All {
		page, perPage := pagination.Normalize(params.Page, params.PerPage)
		filter.Limit = perPage
		filter.Offset = pagination.Offset(page, perPage)
	}

	accounts, total, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("search", params.Search))
		return nil, 0, err
	}
	return accounts, total, nil
}

// GetAccountsByIDs retrieves multiple accounts by their IDs. Unknown IDs are absent from the map.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs", slog.Int("count", len(accountIDs)))
		return nil, err
	}
	return accounts, nil
}

// CreateAccount registers a new active account. A taken name or code comes back from
// the repository as a field error.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	if actor.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	now := s.Now()
	account := domain.Account{
		AccountID:          uuid.NewString(),
		AccountName:        strings.TrimSpace(req.AccountName),
		AccountCode:        strings.TrimSpace(req.AccountCode),
		AccountDescription: strings.TrimSpace(req.AccountDescription),
		AccountType:        strings.TrimSpace(req.AccountType),
		AccountNormalSide:  req.AccountNormalSide,
		Status:             domain.AccountActive,
		AuditFields:        domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	if account.AccountName == "" {
		return nil, apperrors.NewValidationError("account_name", "The account name field is required.")
	}
	if account.AccountCode == "" {
		return nil, apperrors.NewValidationError("account_code", "The account code field is required.")
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			s.LogWarn(ctx, err, "Account creation rejected", slog.String("user_id", actor.UserID))
		} else {
			s.LogError(ctx, err, "Failed to create account", slog.String("user_id", actor.UserID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_code", account.AccountCode),
		slog.String("user_id", actor.UserID),
	)
	return &account, nil
}

// DeleteAccount removes an account. Accounts referenced by line items are refused with ErrConflict.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, actor domain.Actor) error {
	if actor.UserID == "" {
		return apperrors.ErrUnauthorized
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.LineItemCount > 0 {
		err := fmt.Errorf("%w: Cannot delete account as it has associated disbursement items.", apperrors.ErrConflict)
		s.LogWarn(ctx, err, "Account deletion refused",
			slog.String("account_id", accountID),
			slog.Int("disbursement_items_count", account.LineItemCount),
		)
		return err
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("user_id", actor.UserID))
	return nil
}

// ToggleAccountStatus flips the account status. A concurrent toggle surfaces as ErrConflict.
func (s *accountService) ToggleAccountStatus(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error) {
	if actor.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	from := account.Status
	now := s.Now()
	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, from, from.Toggled(), now); err != nil {
		s.LogWarn(ctx, err, "Account status toggle failed", slog.String("account_id", accountID))
		return nil, err
	}
	account.Status = from.Toggled()
	account.UpdatedAt = now

	s.LogInfo(ctx, "Account status changed",
		slog.String("account_id", accountID),
		slog.String("status", string(account.Status)),
		slog.String("user_id", actor.UserID),
	)
	return account, nil
}
