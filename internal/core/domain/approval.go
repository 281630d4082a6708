package domain

import (
	"fmt"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
)

// Role names known to the approval workflow.
const (
	RoleAccountingAssistant = "accounting assistant"
	RoleAccountingHead      = "accounting head"
	RoleAuditor             = "auditor"
	RoleSVP                 = "SVP"

	// DefaultOverrideRole may act at any review step.
	DefaultOverrideRole = "admin"
)

const (
	SubmissionStep  = 1
	FirstReviewStep = 2
	FinalStep       = 5
)

const (
	SubmissionRemarks     = "Voucher generated and approved by assistant."
	DefaultApproveRemarks = "Approved."
	DefaultDeclineRemarks = "Declined."
)

// ApprovalStep is one row of the approval sequence.
type ApprovalStep struct {
	Step     int
	Role     string
	NextStep int
}

// ApprovalSequence lists the review steps in order. Approving the last row moves
// the disbursement to FinalStep with status approved.
var ApprovalSequence = []ApprovalStep{
	{Step: 2, Role: RoleAccountingHead, NextStep: 3},
	{Step: 3, Role: RoleAuditor, NextStep: 4},
	{Step: 4, Role: RoleSVP, NextStep: FinalStep},
}

// LookupApprovalStep returns the sequence row for step.
func LookupApprovalStep(step int) (ApprovalStep, bool) {
	for _, s := range ApprovalSequence {
		if s.Step == step {
			return s, true
		}
	}
	return ApprovalStep{}, false
}

// Decision is what a reviewer does at the current step.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDecline Decision = "decline"
)

// Transition is the outcome of a decision: the new state and the tracking entry to append.
type Transition struct {
	FromStep int
	ToStep   int
	ToStatus Status
	Role     string // role required at FromStep, recorded on the tracking entry
	Action   TrackingAction
}

// CanAct reports whether actor may decide at step. overrideRole may act anywhere; empty disables it.
func CanAct(actor Actor, step ApprovalStep, overrideRole string) bool {
	if overrideRole != "" && actor.HasRole(overrideRole) {
		return true
	}
	return actor.HasRole(step.Role)
}

// NextTransition computes the transition for decision on d by actor.
// ErrConflict is returned when d is no longer pending, ErrForbidden when the actor lacks the step's role.
func NextTransition(d Disbursement, actor Actor, decision Decision, overrideRole string) (Transition, error) {
	if !d.IsPending() {
		return Transition{}, fmt.Errorf("%w: disbursement is %s", apperrors.ErrConflict, d.Status)
	}
	step, ok := LookupApprovalStep(d.Step)
	if !ok {
		return Transition{}, fmt.Errorf("%w: no review pending at step %d", apperrors.ErrConflict, d.Step)
	}
	if !CanAct(actor, step, overrideRole) {
		return Transition{}, fmt.Errorf("%w: step %d requires role %q", apperrors.ErrForbidden, step.Step, step.Role)
	}

	t := Transition{FromStep: step.Step, Role: step.Role}
	switch decision {
	case DecisionApprove:
		t.ToStep = step.NextStep
		t.Action = ActionApproved
		t.ToStatus = StatusPending
		if step.NextStep == FinalStep {
			t.ToStatus = StatusApproved
		}
	case DecisionDecline:
		t.ToStep = step.Step
		t.Action = ActionRejected
		t.ToStatus = StatusRejected
	default:
		return Transition{}, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}
	return t, nil
}

// DefaultRemarks returns the remarks recorded when the reviewer gives none.
func DefaultRemarks(decision Decision) string {
	if decision == DecisionDecline {
		return DefaultDeclineRemarks
	}
	return DefaultApproveRemarks
}
