package domain

import (
	"time"

	"github.com/google/uuid"
)

type WindowStatus string

const (
	WindowPending    WindowStatus = "PENDING"
	WindowConfirmed  WindowStatus = "CONFIRMED"
	WindowCancelled  WindowStatus = "CANCELLED"
	WindowWaitlisted WindowStatus = "WAITLISTED"
)

type CancelReason string

const (
	CancelByHolder CancelReason = "HOLDER"
	CancelByOwner  CancelReason = "OWNER"
	CancelExpired  CancelReason = "EXPIRED"
)

var transitions = map[WindowStatus][]WindowStatus{
	WindowPending:    {WindowConfirmed, WindowWaitlisted, WindowCancelled},
	WindowWaitlisted: {WindowConfirmed, WindowCancelled},
	WindowConfirmed:  {WindowCancelled},
}

func (s WindowStatus) CanTransitionTo(next WindowStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Live reports whether the window still occupies its calendar.
func (s WindowStatus) Live() bool {
	return s == WindowPending || s == WindowConfirmed || s == WindowWaitlisted
}

// Span is a half-open interval [Start, End) of UTC instants with
// millisecond precision.
type Span struct {
	Start time.Time
	End   time.Time
}

func NewSpan(start, end time.Time) (Span, error) {
	s := Span{Start: normalize(start), End: normalize(end)}
	if !s.Start.Before(s.End) {
		return Span{}, ErrInvalidRange
	}
	return s, nil
}

func normalize(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli()).UTC()
}

func (s Span) Overlaps(o Span) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

func (s Span) Touches(o Span) bool {
	return s.End.Equal(o.Start) || o.End.Equal(s.Start)
}

func (s Span) Equal(o Span) bool {
	return s.Start.Equal(o.Start) && s.End.Equal(o.End)
}

func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

type ReservedWindow struct {
	ID                uuid.UUID       `json:"id"`
	ResourceID        uuid.UUID       `json:"resource_id"`
	HolderID          uuid.UUID       `json:"holder_id"`
	Start             time.Time       `json:"start"`
	End               time.Time       `json:"end"`
	Status            WindowStatus    `json:"status"`
	RequestedCapacity int             `json:"requested_capacity"`
	Beds              []BedRequest    `json:"beds,omitempty"`
	Profile           CapacityProfile `json:"profile"`
	Seq               int64           `json:"seq"`
	SubmittedAt       time.Time       `json:"submitted_at"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
	CancelReason      CancelReason    `json:"cancel_reason,omitempty"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
}

func (w *ReservedWindow) Span() Span {
	return Span{Start: w.Start, End: w.End}
}

// Blocks reports whether the window prevents requester from booking an
// overlapping range.
func (w *ReservedWindow) Blocks(requesterID uuid.UUID) bool {
	switch w.Status {
	case WindowConfirmed:
		return true
	case WindowPending:
		return w.HolderID != requesterID
	default:
		return false
	}
}

func (w *ReservedWindow) HoldExpired(now time.Time) bool {
	return w.Status == WindowPending && w.ExpiresAt != nil && !now.Before(*w.ExpiresAt)
}

func (w *ReservedWindow) clone() ReservedWindow {
	c := *w
	if w.Beds != nil {
		c.Beds = append([]BedRequest(nil), w.Beds...)
	}
	c.Profile = w.Profile.clone()
	return c
}
