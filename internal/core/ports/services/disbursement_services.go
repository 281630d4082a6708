package services

import (
	"context"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/dto"
)

// DisbursementReaderSvc defines read operations for disbursements
type DisbursementReaderSvc interface {
	// GetDisbursement retrieves a disbursement with its items, tracking, attachments and total amount.
	GetDisbursement(ctx context.Context, disbursementID string) (*domain.Disbursement, error)

	// ListDisbursements retrieves one page of disbursements with statistics.
	ListDisbursements(ctx context.Context, params dto.ListDisbursementsParams) (*domain.DisbursementPage, error)

	// GetTrackingHistory retrieves the tracking entries of a disbursement ordered by step.
	GetTrackingHistory(ctx context.Context, disbursementID string) ([]domain.TrackingEntry, error)
}

// DisbursementWorkflowSvc defines the approval state machine operations.
// Every operation takes the acting user explicitly.
type DisbursementWorkflowSvc interface {
	// SubmitDisbursement creates a disbursement at step 2 with its items, attachments and
	// the step 1 tracking entry, all in one transaction.
	SubmitDisbursement(ctx context.Context, req dto.CreateDisbursementRequest, actor domain.Actor) (*domain.SubmitResult, error)

	// ApproveDisbursement approves the current step.
	ApproveDisbursement(ctx context.Context, disbursementID string, actor domain.Actor, remarks *string) (*domain.Disbursement, error)

	// DeclineDisbursement rejects the disbursement at the current step.
	DeclineDisbursement(ctx context.Context, disbursementID string, actor domain.Actor, remarks *string) (*domain.Disbursement, error)
}

// DisbursementSvcFacade combines all disbursement-related service interfaces
type DisbursementSvcFacade interface {
	DisbursementReaderSvc
	DisbursementWorkflowSvc
}
