package domain

// AccountStatus marks whether an account may be referenced by new line items.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Account is a chart-of-accounts record referenced by disbursement line items.
type Account struct {
	AccountID          string        `json:"accountID"`
	AccountName        string        `json:"accountName"`
	AccountCode        string        `json:"accountCode"`
	AccountDescription string        `json:"accountDescription"`
	AccountType        string        `json:"accountType"`       // e.g. "Asset", "Expense"
	AccountNormalSide  string        `json:"accountNormalSide"` // "debit" or "credit"
	Status             AccountStatus `json:"status"`
	LineItemCount      int           `json:"lineItemCount"` // number of line items referencing the account
	AuditFields
}

// IsActive reports whether the account may be used on a new disbursement.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// Toggled returns the opposite status.
func (s AccountStatus) Toggled() AccountStatus {
	if s == AccountActive {
		return AccountInactive
	}
	return AccountActive
}

// AccountFilter narrows the account registry listing.
type AccountFilter struct {
	Search     string
	ActiveOnly bool
	Limit      int // 0 means no limit
	Offset     int
}
