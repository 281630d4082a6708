package mapping

import (
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		AccountName:        m.AccountName,
		AccountCode:        m.AccountCode,
		AccountDescription: m.AccountDescription,
		AccountType:        m.AccountType,
		AccountNormalSide:  m.AccountNormalSide,
		Status:             domain.AccountStatus(m.Status),
		LineItemCount:      m.LineItemCount,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		AccountName:        d.AccountName,
		AccountCode:        d.AccountCode,
		AccountDescription: d.AccountDescription,
		AccountType:        d.AccountType,
		AccountNormalSide:  d.AccountNormalSide,
		Status:             string(d.Status),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
