package dto

import (
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/utils/pagination"
)

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	ID                     string `json:"id"`
	AccountName            string `json:"account_name"`
	AccountCode            string `json:"account_code"`
	AccountDescription     string `json:"account_description"`
	AccountType            string `json:"account_type"`
	AccountNormalSide      string `json:"account_normal_side"`
	Status                 string `json:"status"`
	DisbursementItemsCount int    `json:"disbursement_items_count"`
}

// CreateAccountRequest defines the data needed to register an account.
type CreateAccountRequest struct {
	AccountName        string `json:"account_name" binding:"required,max=255"`
	AccountCode        string `json:"account_code" binding:"required,max=64"`
	AccountDescription string `json:"account_description"`
	AccountType        string `json:"account_type" binding:"required,max=64"`
	AccountNormalSide  string `json:"account_normal_side" binding:"required,oneof=debit credit"`
}

// ListAccountsParams defines query parameters for listing accounts.
// All returns every active account without pagination.
type ListAccountsParams struct {
	Search  string `form:"search" binding:"omitempty,max=255"`
	All     bool   `form:"all"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=10" binding:"min=1,max=100"`
}

// ListAccountsResponse is the account listing. Page metadata is absent when All was requested.
type ListAccountsResponse struct {
	Data []AccountResponse `json:"data"`
	*pagination.Meta
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		ID:                     acc.AccountID,
		AccountName:            acc.AccountName,
		AccountCode:            acc.AccountCode,
		AccountDescription:     acc.AccountDescription,
		AccountType:            acc.AccountType,
		AccountNormalSide:      acc.AccountNormalSide,
		Status:                 string(acc.Status),
		DisbursementItemsCount: acc.LineItemCount,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc) // Reuse the single converter
	}
	return res
}
