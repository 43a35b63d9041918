package domain

import "github.com/google/uuid"

type OutcomeStatus string

const (
	OutcomeConfirmed  OutcomeStatus = "CONFIRMED"
	OutcomePending    OutcomeStatus = "PENDING"
	OutcomeWaitlisted OutcomeStatus = "WAITLISTED"
	OutcomeRejected   OutcomeStatus = "REJECTED"
)

type RejectReason string

const (
	ReasonConflict RejectReason = "CONFLICT"
	ReasonCapacity RejectReason = "CAPACITY"
	ReasonExpired  RejectReason = "EXPIRED"
)

// BookingOutcome reports what happened to a submitted request. Rejections
// carry enough detail for a caller to explain them without re-querying.
type BookingOutcome struct {
	Status   OutcomeStatus    `json:"status"`
	Window   *ReservedWindow  `json:"window,omitempty"`
	Reason   RejectReason     `json:"reason,omitempty"`
	Blocking []ReservedWindow `json:"blocking,omitempty"`
	Capacity *CapacityResult  `json:"capacity,omitempty"`
	Quote    Money            `json:"quote"`
	// Replayed is true when an identical PENDING hold by the same requester
	// was returned instead of creating a new window.
	Replayed bool `json:"replayed,omitempty"`
}

type CancelStatus string

const (
	CancelCancelled     CancelStatus = "CANCELLED"
	CancelPromoted      CancelStatus = "PROMOTED"
	CancelNotFound      CancelStatus = "NOT_FOUND"
	CancelNotAuthorized CancelStatus = "NOT_AUTHORIZED"
	CancelExpiredStatus CancelStatus = "EXPIRED"
)

type CancelOutcome struct {
	Status   CancelStatus `json:"status"`
	WindowID uuid.UUID    `json:"window_id"`
	// PromotedID is the first waitlisted window confirmed by the release.
	PromotedID  *uuid.UUID   `json:"promoted_id,omitempty"`
	PromotedIDs []uuid.UUID  `json:"promoted_ids,omitempty"`
	Reason      CancelReason `json:"reason,omitempty"`
}
