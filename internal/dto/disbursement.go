package dto

import (
	"time"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one debit or credit entry of a submission.
type LineItemRequest struct {
	AccountID   string          `json:"account_id" binding:"required,max=64"`
	Type        string          `json:"type" binding:"required,oneof=debit credit"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	OrderNumber int             `json:"order_number" binding:"min=0"`
}

// CreateDisbursementRequest defines the data needed to submit a disbursement.
// Accounts arrive either as a JSON array or, in form posts, as a JSON-encoded string.
type CreateDisbursementRequest struct {
	Title       string            `json:"title" form:"title" binding:"required,max=255"`
	Description string            `json:"description" form:"description"`
	Accounts    []LineItemRequest `json:"accounts" form:"-" binding:"required,min=1,dive"`
	Attachments []string          `json:"attachments" form:"attachments[]" binding:"omitempty,dive,required,max=255"`
}

// TransitionRequest carries the optional remarks of an approve or decline call.
type TransitionRequest struct {
	Remarks *string `json:"remarks" form:"remarks" binding:"omitempty,max=1000"`
}

// ListDisbursementsParams defines query parameters for listing disbursements.
type ListDisbursementsParams struct {
	Search    string `form:"search" binding:"omitempty,max=255"`
	DateFrom  string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Status    string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Step      *int   `form:"step" binding:"omitempty,min=1,max=5"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=created_at control_number title status step"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PerPage   int    `form:"per_page,default=10" binding:"min=1,max=100"`
}

// DisbursementResponse defines the data returned for a disbursement.
// Items, tracking and attachments are only present on detail reads.
type DisbursementResponse struct {
	ID            string               `json:"id"`
	ControlNumber string               `json:"control_number"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Step          int                  `json:"step"`
	Status        string               `json:"status"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	CreatedBy     string               `json:"created_by"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Items         []LineItemResponse   `json:"items,omitempty"`
	Tracking      []TrackingResponse   `json:"tracking,omitempty"`
	Attachments   []AttachmentResponse `json:"attachments,omitempty"`
}

// LineItemResponse defines the data returned for a line item.
type LineItemResponse struct {
	ID          string           `json:"id"`
	AccountID   string           `json:"account_id"`
	Type        string           `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	OrderNumber int              `json:"order_number"`
	Account     *AccountResponse `json:"account,omitempty"`
}

// TrackingResponse defines the data returned for a tracking entry.
type TrackingResponse struct {
	ID        string     `json:"id"`
	Step      int        `json:"step"`
	Role      string     `json:"role"`
	Action    string     `json:"action"`
	HandledBy *string    `json:"handled_by"`
	Remarks   *string    `json:"remarks"`
	ActedAt   *time.Time `json:"acted_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// AttachmentResponse defines the data returned for an attachment.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}

// ListDisbursementsResponse is one page of disbursements with statistics.
type ListDisbursementsResponse struct {
	Data []DisbursementResponse `json:"data"`
	pagination.Meta
	Statistics domain.DisbursementStatistics `json:"statistics"`
}

// SubmitDisbursementResponse is the created disbursement plus the temporary upload
// references that were not found.
type SubmitDisbursementResponse struct {
	Disbursement       DisbursementResponse `json:"disbursement"`
	SkippedAttachments []string             `json:"skipped_attachments"`
}

// TrackingHistoryResponse lists the tracking entries of a disbursement.
type TrackingHistoryResponse struct {
	Data []TrackingResponse `json:"data"`
}

// ToDisbursementResponse converts a domain.Disbursement to DisbursementResponse DTO
func ToDisbursementResponse(d *domain.Disbursement) DisbursementResponse {
	res := DisbursementResponse{
		ID:            d.DisbursementID,
		ControlNumber: d.ControlNumber,
		Title:         d.Title,
		Description:   d.Description,
		Step:          d.Step,
		Status:        string(d.Status),
		TotalAmount:   d.TotalAmount,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if len(d.Items) > 0 {
		res.Items = make([]LineItemResponse, len(d.Items))
		for i, item := range d.Items {
			res.Items[i] = ToLineItemResponse(&item)
		}
	}
	if len(d.Tracking) > 0 {
		res.Tracking = ToTrackingResponses(d.Tracking)
	}
	if len(d.Attachments) > 0 {
		res.Attachments = make([]AttachmentResponse, len(d.Attachments))
		for i, a := range d.Attachments {
			res.Attachments[i] = AttachmentResponse{ID: a.AttachmentID, FileName: a.FileName, FileType: a.FileType, CreatedAt: a.CreatedAt}
		}
	}
	return res
}

// ToLineItemResponse converts a domain.LineItem to LineItemResponse DTO
func ToLineItemResponse(item *domain.LineItem) LineItemResponse {
	res := LineItemResponse{
		ID:          item.LineItemID,
		AccountID:   item.AccountID,
		Type:        string(item.Type),
		Amount:      item.Amount,
		OrderNumber: item.OrderNumber,
	}
	if item.Account != nil {
		acc := ToAccountResponse(item.Account)
		res.Account = &acc
	}
	return res
}

// ToTrackingResponses converts tracking entries to TrackingResponse DTOs
func ToTrackingResponses(entries []domain.TrackingEntry) []TrackingResponse {
	res := make([]TrackingResponse, len(entries))
	for i, e := range entries {
		res[i] = TrackingResponse{
			ID:        e.TrackingID,
			Step:      e.Step,
			Role:      e.Role,
			Action:    string(e.Action),
			HandledBy: e.HandledBy,
			Remarks:   e.Remarks,
			ActedAt:   e.ActedAt,
			CreatedAt: e.CreatedAt,
		}
	}
	return res
}

// ToListDisbursementsResponse converts a page of disbursements to its DTO
func ToListDisbursementsResponse(page *domain.DisbursementPage, meta pagination.Meta) ListDisbursementsResponse {
	data := make([]DisbursementResponse, len(page.Disbursements))
	for i, d := range page.Disbursements {
		data[i] = ToDisbursementResponse(&d)
	}
	return ListDisbursementsResponse{Data: data, Meta: meta, Statistics: page.Statistics}
}

// ToSubmitDisbursementResponse converts a submit result to its DTO
func ToSubmitDisbursementResponse(res *domain.SubmitResult) SubmitDisbursementResponse {
	skipped := res.SkippedAttachments
	if skipped == nil {
		skipped = []string{}
	}
	return SubmitDisbursementResponse{
		Disbursement:       ToDisbursementResponse(&res.Disbursement),
		SkippedAttachments: skipped,
	}
}
