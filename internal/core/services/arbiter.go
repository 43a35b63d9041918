package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tourpad/scheduler/internal/core/domain"
)

type ArbiterState string

const (
	StateIdle       ArbiterState = "IDLE"
	StateEvaluating ArbiterState = "EVALUATING"
	StateCommitted  ArbiterState = "COMMITTED"
	StateRejected   ArbiterState = "REJECTED"
	StateQueued     ArbiterState = "QUEUED"
)

type stateTable struct {
	m sync.Map
}

func (t *stateTable) set(resourceID uuid.UUID, st ArbiterState) {
	t.m.Store(resourceID, st)
}

func (t *stateTable) get(resourceID uuid.UUID) ArbiterState {
	v, ok := t.m.Load(resourceID)
	if !ok {
		return StateIdle
	}
	return v.(ArbiterState)
}

func stateFor(o *domain.BookingOutcome) ArbiterState {
	switch o.Status {
	case domain.OutcomeRejected:
		return StateRejected
	case domain.OutcomeWaitlisted:
		return StateQueued
	default:
		return StateCommitted
	}
}

// arbitrate decides a request against a calendar the caller holds the lock
// for, inserting the resulting window. Rejections leave the calendar as is.
func arbitrate(cal *domain.ResourceCalendar, req domain.BookingRequest, span domain.Span, loc *time.Location, now time.Time) (*domain.BookingOutcome, error) {
	conflicts, err := domain.DetectConflicts(cal, span, req.RequesterID)
	if err != nil {
		return nil, err
	}

	if own := conflicts.OwnPending; own != nil {
		quote, err := domain.Quote(own.Profile, domain.Nights(span, loc), own.RequestedCapacity)
		if err != nil {
			return nil, err
		}
		return &domain.BookingOutcome{
			Status:   domain.OutcomePending,
			Window:   own,
			Quote:    quote,
			Replayed: true,
		}, nil
	}

	queue := false
	if conflicts.Blocked() {
		if !waitlistOpen(cal, span) {
			return &domain.BookingOutcome{
				Status:   domain.OutcomeRejected,
				Reason:   domain.ReasonConflict,
				Blocking: conflicts.Blocking,
			}, nil
		}
		queue = true
	}

	capacity := domain.ValidateCapacity(req, *cal.Profile)
	if !capacity.OK() {
		return &domain.BookingOutcome{
			Status:   domain.OutcomeRejected,
			Reason:   domain.ReasonCapacity,
			Capacity: &capacity,
		}, nil
	}

	quote, err := domain.Quote(*cal.Profile, domain.Nights(span, loc), req.GuestCount)
	if err != nil {
		return nil, err
	}

	w := domain.ReservedWindow{
		ID:                uuid.New(),
		HolderID:          req.RequesterID,
		Start:             span.Start,
		End:               span.End,
		RequestedCapacity: req.GuestCount,
		Beds:              req.Beds,
		Profile:           *cal.Profile,
		SubmittedAt:       now.UTC(),
	}

	outcome := &domain.BookingOutcome{Quote: quote}
	switch {
	case queue:
		w.Status = domain.WindowWaitlisted
		outcome.Status = domain.OutcomeWaitlisted
		outcome.Blocking = conflicts.Blocking
	case cal.Policy.HoldTTL > 0:
		expires := now.Add(cal.Policy.HoldTTL).UTC()
		w.Status = domain.WindowPending
		w.ExpiresAt = &expires
		outcome.Status = domain.OutcomePending
	default:
		w.Status = domain.WindowConfirmed
		outcome.Status = domain.OutcomeConfirmed
	}

	if err := cal.Insert(w); err != nil {
		return nil, err
	}
	stored, _ := cal.Window(w.ID)
	outcome.Window = &stored
	return outcome, nil
}

func waitlistOpen(cal *domain.ResourceCalendar, span domain.Span) bool {
	if cal.Policy.WaitlistMax <= 0 {
		return false
	}
	return len(cal.Waitlisted(span)) < cal.Policy.WaitlistMax
}

// promote confirms waitlisted windows overlapping a freed span, earliest
// submission first. Each candidate is checked against the calendar as it
// stands, including windows promoted earlier in the same pass and holds its
// own holder still has.
func promote(cal *domain.ResourceCalendar, freed domain.Span) []uuid.UUID {
	var promoted []uuid.UUID
	for _, cand := range cal.Waitlisted(freed) {
		occupants, err := domain.Occupants(cal, cand)
		if err != nil || len(occupants) > 0 {
			continue
		}
		if _, err := cal.Transition(cand.ID, domain.WindowConfirmed, nil); err != nil {
			continue
		}
		promoted = append(promoted, cand.ID)
	}
	return promoted
}

// releaseWindow cancels a window and promotes whatever its range frees up.
func releaseWindow(cal *domain.ResourceCalendar, windowID uuid.UUID, reason domain.CancelReason, now time.Time) (*domain.CancelOutcome, error) {
	before, ok := cal.Window(windowID)
	if !ok {
		return &domain.CancelOutcome{Status: domain.CancelNotFound, WindowID: windowID}, nil
	}

	removed, err := cal.Remove(windowID, reason, now)
	if err != nil {
		return nil, err
	}

	outcome := &domain.CancelOutcome{
		Status:   domain.CancelCancelled,
		WindowID: windowID,
		Reason:   reason,
	}
	if reason == domain.CancelExpired {
		outcome.Status = domain.CancelExpiredStatus
	}

	if before.Status == domain.WindowConfirmed || before.Status == domain.WindowPending {
		if ids := promote(cal, removed.Span()); len(ids) > 0 {
			first := ids[0]
			outcome.Status = domain.CancelPromoted
			outcome.PromotedID = &first
			outcome.PromotedIDs = ids
		}
	}
	return outcome, nil
}
