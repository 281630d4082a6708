package domain

import "time"

// TrackingAction is the action recorded by a tracking entry.
type TrackingAction string

const (
	ActionPending  TrackingAction = "pending"
	ActionApproved TrackingAction = "approved"
	ActionRejected TrackingAction = "rejected"
)

// TrackingEntry is one immutable audit record of a role's action at a step.
type TrackingEntry struct {
	TrackingID     string         `json:"trackingID"`
	DisbursementID string         `json:"disbursementID"`
	HandledBy      *string        `json:"handledBy"` // nil for placeholder entries
	Step           int            `json:"step"`
	Role           string         `json:"role"`
	Action         TrackingAction `json:"action"`
	Remarks        *string        `json:"remarks"`
	ActedAt        *time.Time     `json:"actedAt"`
	CreatedAt      time.Time      `json:"createdAt"`
}
