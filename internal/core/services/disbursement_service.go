package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/SscSPs/disbursement_app/internal/utils"
	"github.com/SscSPs/disbursement_app/internal/utils/accounting"
	"github.com/SscSPs/disbursement_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	maxControlNumberAttempts = 5
	maxTitleLength           = 255
	dateLayout               = "2006-01-02"
)

// disbursementService implements the DisbursementSvcFacade interface
type disbursementService struct {
	BaseService
	disbursementRepo portsrepo.DisbursementRepositoryWithTx
	accountSvc       portssvc.AccountReaderSvc
	binder           portssvc.AttachmentBinderSvc
	locker           ports.TransitionLocker
	overrideRole     string
	controlNumberFn  func(time.Time) (string, error)
}

// DisbursementServiceOption is a functional option for configuring the disbursement service
type DisbursementServiceOption func(*disbursementService)

// WithTransitionLocker serializes approve/decline of one disbursement through locker.
func WithTransitionLocker(locker ports.TransitionLocker) DisbursementServiceOption {
	return func(s *disbursementService) {
		s.locker = locker
	}
}

// WithOverrideRole sets the role allowed to act at any step. An empty role disables the override.
func WithOverrideRole(role string) DisbursementServiceOption {
	return func(s *disbursementService) {
		s.overrideRole = role
	}
}

// WithDisbursementClock overrides the service clock.
func WithDisbursementClock(now func() time.Time) DisbursementServiceOption {
	return func(s *disbursementService) {
		s.now = now
	}
}

// WithControlNumberGenerator overrides utils.GenerateControlNumber.
func WithControlNumberGenerator(fn func(time.Time) (string, error)) DisbursementServiceOption {
	return func(s *disbursementService) {
		s.controlNumberFn = fn
	}
}

// NewDisbursementService creates the disbursement workflow service.
func NewDisbursementService(repo portsrepo.DisbursementRepositoryWithTx, accountSvc portssvc.AccountReaderSvc, binder portssvc.AttachmentBinderSvc, options ...DisbursementServiceOption) portssvc.DisbursementSvcFacade {
	svc := &disbursementService{
		disbursementRepo: repo,
		accountSvc:       accountSvc,
		binder:           binder,
		overrideRole:     domain.DefaultOverrideRole,
		controlNumberFn:  utils.GenerateControlNumber,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure disbursementService implements the DisbursementSvcFacade interface
var _ portssvc.DisbursementSvcFacade = (*disbursementService)(nil)

// withTx runs fn inside a transaction, committing when it returns nil.
func (s *disbursementService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.disbursementRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := s.disbursementRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to rollback transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return s.disbursementRepo.Commit(ctx, tx)
}

// validateSubmission checks the request and resolves it into line items.
// All field problems are collected into one ValidationError.
func (s *disbursementService) validateSubmission(ctx context.Context, req dto.CreateDisbursementRequest) ([]domain.LineItem, error) {
	verr := &apperrors.ValidationError{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		verr.Add("title", "title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		verr.Add("title", fmt.Sprintf("title may not be greater than %d characters", maxTitleLength))
	}

	if len(req.Accounts) == 0 {
		verr.Add("accounts", "at least one line item is required")
		return nil, verr
	}

	items := make([]domain.LineItem, len(req.Accounts))
	accountIDs := make([]string, 0, len(req.Accounts))
	seen := make(map[string]bool, len(req.Accounts))
	for i, line := range req.Accounts {
		field := "accounts." + strconv.Itoa(i)
		entryType := domain.EntryType(strings.ToLower(line.Type))

		if line.AccountID == "" {
			verr.Add(field+".account_id", "account is required")
		}
		if !entryType.IsValid() {
			verr.Add(field+".type", "type must be debit or credit")
		}
		if !line.Amount.IsPositive() {
			verr.Add(field+".amount", "amount must be greater than zero")
		} else if !accounting.HasValidPrecision(line.Amount) {
			verr.Add(field+".amount", "amount may not have more than 2 decimal places")
		}
		if line.OrderNumber < 0 {
			verr.Add(field+".order_number", "order number must be a non-negative integer")
		}

		items[i] = domain.LineItem{
			AccountID:   line.AccountID,
			Type:        entryType,
			Amount:      line.Amount,
			OrderNumber: line.OrderNumber,
		}
		if line.AccountID != "" && !seen[line.AccountID] {
			seen[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if item.AccountID == "" {
			continue
		}
		field := "accounts." + strconv.Itoa(i) + ".account_id"
		acc, ok := accounts[item.AccountID]
		switch {
		case !ok:
			verr.Add(field, "account does not exist")
		case !acc.IsActive():
			verr.Add(field, "account is inactive")
		}
	}

	if !verr.HasErrors() {
		if err := accounting.ValidateBalance(items); err != nil {
			verr.Add("accounts", err.Error())
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return items, nil
}

// SubmitDisbursement creates the disbursement, its line items, the finalized attachments
// and the step 1 tracking entry in one transaction. Submission counts as the assistant's
// approval, so the disbursement starts at the first review step.
func (s *disbursementService) SubmitDisbursement(ctx context.Context, req dto.CreateDisbursementRequest, actor domain.Actor) (*domain.SubmitResult, error) {
	if actor.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	items, err := s.validateSubmission(ctx, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			s.LogWarn(ctx, err, "Disbursement submission rejected", slog.String("user_id", actor.UserID))
		}
		return nil, err
	}

	now := s.Now()
	disbursement := domain.Disbursement{
		DisbursementID: uuid.NewString(),
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Step:           domain.FirstReviewStep,
		Status:         domain.StatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: actor.UserID,
			UpdatedAt: now,
		},
	}
	for i := range items {
		items[i].LineItemID = uuid.NewString()
		items[i].DisbursementID = disbursement.DisbursementID
		items[i].AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: actor.UserID, UpdatedAt: now}
	}

	handledBy := actor.UserID
	remarks := domain.SubmissionRemarks
	submission := domain.TrackingEntry{
		TrackingID:     uuid.NewString(),
		DisbursementID: disbursement.DisbursementID,
		HandledBy:      &handledBy,
		Step:           domain.SubmissionStep,
		Role:           domain.RoleAccountingAssistant,
		Action:         domain.ActionApproved,
		Remarks:        &remarks,
		ActedAt:        &now,
		CreatedAt:      now,
	}

	var attachments []domain.Attachment
	var skipped []string
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.insertWithControlNumber(ctx, tx, &disbursement); err != nil {
			return err
		}
		if err := s.disbursementRepo.SaveLineItemsInTx(ctx, tx, items); err != nil {
			return err
		}
		var err error
		attachments, skipped, err = s.binder.FinalizeAttachments(ctx, tx, disbursement.DisbursementID, req.Attachments)
		if err != nil {
			return err
		}
		return s.disbursementRepo.AppendTrackingInTx(ctx, tx, submission)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to submit disbursement", slog.String("user_id", actor.UserID))
		return nil, err
	}

	disbursement.Items = items
	disbursement.Attachments = attachments
	disbursement.Tracking = []domain.TrackingEntry{submission}
	disbursement.TotalAmount = accounting.TotalAmount(items)

	s.LogInfo(ctx, "Disbursement submitted",
		slog.String("disbursement_id", disbursement.DisbursementID),
		slog.String("control_number", disbursement.ControlNumber),
		slog.Int("line_items", len(items)),
		slog.Int("attachments", len(attachments)),
		slog.Int("skipped_attachments", len(skipped)))

	return &domain.SubmitResult{Disbursement: disbursement, SkippedAttachments: skipped}, nil
}

// insertWithControlNumber saves the header, drawing a new control number on collision.
func (s *disbursementService) insertWithControlNumber(ctx context.Context, tx pgx.Tx, d *domain.Disbursement) error {
	for attempt := 1; attempt <= maxControlNumberAttempts; attempt++ {
		controlNumber, err := s.controlNumberFn(d.CreatedAt)
		if err != nil {
			return apperrors.NewAppError(500, "failed to generate control number", err)
		}
		d.ControlNumber = controlNumber

		err = s.disbursementRepo.SaveDisbursementInTx(ctx, tx, *d)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
		s.LogDebug(ctx, "Control number collision, retrying", slog.String("control_number", controlNumber), slog.Int("attempt", attempt))
	}
	return apperrors.NewAppError(500, "could not allocate a unique control number", apperrors.ErrDuplicate)
}

// ApproveDisbursement approves the current step of the disbursement.
func (s *disbursementService) ApproveDisbursement(ctx context.Context, disbursementID string, actor domain.Actor, remarks *string) (*domain.Disbursement, error) {
	return s.transition(ctx, disbursementID, actor, domain.DecisionApprove, remarks)
}

// DeclineDisbursement rejects the disbursement at its current step.
func (s *disbursementService) DeclineDisbursement(ctx context.Context, disbursementID string, actor domain.Actor, remarks *string) (*domain.Disbursement, error) {
	return s.transition(ctx, disbursementID, actor, domain.DecisionDecline, remarks)
}

// transition applies decision under a row lock. The UPDATE is additionally guarded by
// the step read under that lock, and tracking has one row per step, so a lost race
// surfaces as ErrConflict.
func (s *disbursementService) transition(ctx context.Context, disbursementID string, actor domain.Actor, decision domain.Decision, remarks *string) (*domain.Disbursement, error) {
	if actor.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, "disbursement:"+disbursementID)
		if err != nil {
			s.LogWarn(ctx, err, "Could not lock disbursement", slog.String("disbursement_id", disbursementID))
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.LogError(ctx, err, "Failed to release disbursement lock", slog.String("disbursement_id", disbursementID))
			}
		}()
	}

	note := domain.DefaultRemarks(decision)
	if remarks != nil && strings.TrimSpace(*remarks) != "" {
		note = strings.TrimSpace(*remarks)
	}

	var updated *domain.Disbursement
	var applied domain.Transition
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		current, err := s.disbursementRepo.FindDisbursementByIDForUpdate(ctx, tx, disbursementID)
		if err != nil {
			return err
		}

		t, err := domain.NextTransition(*current, actor, decision, s.overrideRole)
		if err != nil {
			return err
		}

		now := s.Now()
		if err := s.disbursementRepo.UpdateDisbursementStateInTx(ctx, tx, disbursementID, t.FromStep, t.ToStep, t.ToStatus, now); err != nil {
			return err
		}

		handledBy := actor.UserID
		entry := domain.TrackingEntry{
			TrackingID:     uuid.NewString(),
			DisbursementID: disbursementID,
			HandledBy:      &handledBy,
			Step:           t.FromStep,
			Role:           t.Role,
			Action:         t.Action,
			Remarks:        &note,
			ActedAt:        &now,
			CreatedAt:      now,
		}
		if err := s.disbursementRepo.AppendTrackingInTx(ctx, tx, entry); err != nil {
			return err
		}

		current.Step = t.ToStep
		current.Status = t.ToStatus
		current.UpdatedAt = now
		updated = current
		applied = t
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrValidation):
			s.LogWarn(ctx, err, "Disbursement transition rejected",
				slog.String("disbursement_id", disbursementID),
				slog.String("decision", string(decision)),
				slog.Any("roles", actor.Roles))
		default:
			s.LogError(ctx, err, "Disbursement transition failed", slog.String("disbursement_id", disbursementID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Disbursement transitioned",
		slog.String("disbursement_id", disbursementID),
		slog.String("decision", string(decision)),
		slog.Int("from_step", applied.FromStep),
		slog.Int("to_step", applied.ToStep),
		slog.String("status", string(applied.ToStatus)))
	return updated, nil
}

// GetDisbursement retrieves a disbursement with its items, tracking and attachments.
func (s *disbursementService) GetDisbursement(ctx context.Context, disbursementID string) (*domain.Disbursement, error) {
	d, err := s.disbursementRepo.FindDisbursementByID(ctx, disbursementID)
	if err != nil {
		return nil, err
	}

	items, err := s.disbursementRepo.FindLineItemsByDisbursementID(ctx, disbursementID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load line items", slog.String("disbursement_id", disbursementID))
		return nil, err
	}
	tracking, err := s.disbursementRepo.FindTrackingByDisbursementID(ctx, disbursementID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load tracking", slog.String("disbursement_id", disbursementID))
		return nil, err
	}
	attachments, err := s.disbursementRepo.FindAttachmentsByDisbursementID(ctx, disbursementID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load attachments", slog.String("disbursement_id", disbursementID))
		return nil, err
	}

	d.Items = items
	d.Tracking = tracking
	d.Attachments = attachments
	d.TotalAmount = accounting.TotalAmount(items)
	return d, nil
}

// GetTrackingHistory retrieves the tracking entries of an existing disbursement ordered by step.
func (s *disbursementService) GetTrackingHistory(ctx context.Context, disbursementID string) ([]domain.TrackingEntry, error) {
	if _, err := s.disbursementRepo.FindDisbursementByID(ctx, disbursementID); err != nil {
		return nil, err
	}
	return s.disbursementRepo.FindTrackingByDisbursementID(ctx, disbursementID)
}

// ListDisbursements translates the query parameters into a filter and returns one page.
func (s *disbursementService) ListDisbursements(ctx context.Context, params dto.ListDisbursementsParams) (*domain.DisbursementPage, error) {
	filter, err := toDisbursementFilter(params)
	if err != nil {
		s.LogWarn(ctx, err, "Invalid disbursement listing parameters")
		return nil, err
	}

	page, err := s.disbursementRepo.ListDisbursements(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list disbursements")
		return nil, err
	}
	return page, nil
}

func toDisbursementFilter(params dto.ListDisbursementsParams) (domain.DisbursementFilter, error) {
	verr := &apperrors.ValidationError{}
	page, perPage := pagination.Normalize(params.Page, params.PerPage)
	filter := domain.DisbursementFilter{
		Search:   strings.TrimSpace(params.Search),
		SortBy:   domain.SortByCreatedAt,
		SortDesc: true,
		Limit:    perPage,
		Offset:   pagination.Offset(page, perPage),
	}

	if params.DateFrom != "" {
		t, err := time.Parse(dateLayout, params.DateFrom)
		if err != nil {
			verr.Add("date_from", "date_from must be a date in YYYY-MM-DD format")
		} else {
			filter.DateFrom = &t
		}
	}
	if params.DateTo != "" {
		t, err := time.Parse(dateLayout, params.DateTo)
		if err != nil {
			verr.Add("date_to", "date_to must be a date in YYYY-MM-DD format")
		} else {
			filter.DateTo = &t
		}
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		verr.Add("date_to", "date_to must be a date after or equal to date_from")
	}

	if params.Status != "" {
		status := domain.Status(params.Status)
		if !status.IsValid() {
			verr.Add("status", "status must be one of pending, approved, rejected")
		} else {
			filter.Status = &status
		}
	}
	if params.Step != nil {
		if *params.Step < domain.SubmissionStep || *params.Step > domain.FinalStep {
			verr.Add("step", fmt.Sprintf("step must be between %d and %d", domain.SubmissionStep, domain.FinalStep))
		} else {
			step := *params.Step
			filter.Step = &step
		}
	}

	switch domain.DisbursementSortField(params.SortBy) {
	case "":
	case domain.SortByCreatedAt, domain.SortByControlNumber, domain.SortByTitle, domain.SortByStatus, domain.SortByStep:
		filter.SortBy = domain.DisbursementSortField(params.SortBy)
	default:
		verr.Add("sort_by", "sort_by is not a sortable column")
	}
	switch params.SortOrder {
	case "", "desc":
	case "asc":
		filter.SortDesc = false
	default:
		verr.Add("sort_order", "sort_order must be asc or desc")
	}

	if verr.HasErrors() {
		return domain.DisbursementFilter{}, verr
	}
	return filter, nil
}
