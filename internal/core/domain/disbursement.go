package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the overall state of a disbursement.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Disbursement is a check voucher request moving through the approval sequence.
type Disbursement struct {
	DisbursementID string `json:"disbursementID"`
	ControlNumber  string `json:"controlNumber"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Step           int    `json:"step"`
	Status         Status `json:"status"`
	AuditFields

	// Populated on reads.
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []LineItem      `json:"items,omitempty"`
	Tracking    []TrackingEntry `json:"tracking,omitempty"`
	Attachments []Attachment    `json:"attachments,omitempty"`
}

// IsPending reports whether the disbursement still accepts approve/decline.
func (d Disbursement) IsPending() bool {
	return d.Status == StatusPending
}

// CheckInvariants verifies the step/status combination of d.
func (d Disbursement) CheckInvariants() bool {
	switch d.Status {
	case StatusApproved:
		return d.Step == FinalStep
	case StatusPending:
		return d.Step >= FirstReviewStep && d.Step < FinalStep
	case StatusRejected:
		return d.Step >= FirstReviewStep && d.Step < FinalStep
	}
	return false
}

// DisbursementSortField enumerates the columns a listing may be ordered by.
type DisbursementSortField string

const (
	SortByCreatedAt     DisbursementSortField = "created_at"
	SortByControlNumber DisbursementSortField = "control_number"
	SortByTitle         DisbursementSortField = "title"
	SortByStatus        DisbursementSortField = "status"
	SortByStep          DisbursementSortField = "step"
)

// DisbursementFilter holds the criteria of a disbursement listing.
type DisbursementFilter struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time // inclusive day
	Status   *Status
	Step     *int
	SortBy   DisbursementSortField
	SortDesc bool
	Limit    int
	Offset   int
}

// DisbursementStatistics counts disbursements per status across the whole table.
type DisbursementStatistics struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// DisbursementPage is one page of a listing plus the unpaginated match count.
type DisbursementPage struct {
	Disbursements []Disbursement
	Total         int
	Statistics    DisbursementStatistics
}

// SubmitResult is a created disbursement and the attachment references that could not be resolved.
type SubmitResult struct {
	Disbursement       Disbursement
	SkippedAttachments []string
}
