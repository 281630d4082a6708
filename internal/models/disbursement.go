package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Disbursement represents a row of the disbursements table.
type Disbursement struct {
	DisbursementID string `db:"id"`
	ControlNumber  string `db:"control_number"`
	Title          string `db:"title"`
	Description    string `db:"description"`
	Step           int    `db:"step"`
	Status         string `db:"status"`
	AuditFields
	TotalAmount decimal.Decimal `db:"total_amount"` // computed on listings
}

// DisbursementItem represents a line item row.
type DisbursementItem struct {
	ItemID         string          `db:"id"`
	DisbursementID string          `db:"disbursement_id"`
	AccountID      string          `db:"account_id"`
	Type           string          `db:"type"` // debit or credit
	Amount         decimal.Decimal `db:"amount"`
	OrderNumber    int             `db:"order_number"`
	CreatedAt      time.Time       `db:"created_at"`
	Account        *Account        // joined on detail reads
}

// DisbursementTracking represents an audit trail row.
type DisbursementTracking struct {
	TrackingID     string     `db:"id"`
	DisbursementID string     `db:"disbursement_id"`
	HandledBy      *string    `db:"handled_by"`
	Step           int        `db:"step"`
	Role           string     `db:"role"`
	Action         string     `db:"action"`
	Remarks        *string    `db:"remarks"`
	ActedAt        *time.Time `db:"acted_at"`
	CreatedAt      time.Time  `db:"created_at"`
}

// DisbursementAttachment represents a finalized attachment row.
type DisbursementAttachment struct {
	AttachmentID   string    `db:"id"`
	DisbursementID string    `db:"disbursement_id"`
	FilePath       string    `db:"file_path"`
	FileName       string    `db:"file_name"`
	FileType       string    `db:"file_type"`
	CreatedAt      time.Time `db:"created_at"`
}

// TemporaryUpload represents a staging row.
type TemporaryUpload struct {
	Folder    string    `db:"folder"`
	Filename  string    `db:"filename"`
	CreatedAt time.Time `db:"created_at"`
}
