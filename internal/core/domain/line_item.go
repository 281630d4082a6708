package domain

import "github.com/shopspring/decimal"

// EntryType indicates whether a line item is a debit or a credit.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	return t == Debit || t == Credit
}

// LineItem is one debit or credit entry of a disbursement. Immutable once persisted.
type LineItem struct {
	LineItemID     string          `json:"lineItemID"`
	DisbursementID string          `json:"disbursementID"`
	AccountID      string          `json:"accountID"`
	Type           EntryType       `json:"type"`
	Amount         decimal.Decimal `json:"amount"` // positive, at most 2 fractional digits
	OrderNumber    int             `json:"orderNumber"`
	Account        *Account        `json:"account,omitempty"` // populated on detail reads
	AuditFields
}
