package models

import "time"

// Account represents a chart-of-accounts row.
type Account struct {
	AccountID          string    `db:"id"`
	AccountName        string    `db:"account_name"`
	AccountCode        string    `db:"account_code"`
	AccountDescription string    `db:"account_description"`
	AccountType        string    `db:"account_type"`
	AccountNormalSide  string    `db:"account_normal_side"`
	Status             string    `db:"status"` // active or inactive
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
	LineItemCount      int       `db:"disbursement_items_count"` // computed on listings
}
