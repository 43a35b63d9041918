package domain

import "github.com/google/uuid"

type ConflictKind string

const (
	ConflictFree     ConflictKind = "FREE"
	ConflictBlocked  ConflictKind = "CONFLICT"
	ConflictAdjacent ConflictKind = "ADJACENT"
)

type ConflictResult struct {
	Kind ConflictKind
	// Blocking lists the windows that prevent the booking.
	Blocking []ReservedWindow
	// Adjacent lists windows touching the span; informational only.
	Adjacent []ReservedWindow
	// OwnPending is set when the requester already holds a PENDING window
	// over exactly this span.
	OwnPending *ReservedWindow
}

func (r ConflictResult) Blocked() bool {
	return r.Kind == ConflictBlocked
}

// BlockedByConfirmed reports whether any blocking window is CONFIRMED.
func (r ConflictResult) BlockedByConfirmed() bool {
	for _, w := range r.Blocking {
		if w.Status == WindowConfirmed {
			return true
		}
	}
	return false
}

// DetectConflicts classifies span against the calendar on behalf of
// requesterID. CONFIRMED windows always block and WAITLISTED windows never
// do. A PENDING window blocks unless the requester holds it over exactly
// span, in which case it is reported as OwnPending.
func DetectConflicts(cal *ResourceCalendar, span Span, requesterID uuid.UUID) (ConflictResult, error) {
	overlapping, err := cal.Query(span.Start, span.End)
	if err != nil {
		return ConflictResult{}, err
	}

	var res ConflictResult
	for i := range overlapping {
		w := overlapping[i]
		if w.Blocks(requesterID) {
			res.Blocking = append(res.Blocking, w)
			continue
		}
		if w.Status != WindowPending {
			continue
		}
		// A holder keeps at most one hold over any instant.
		if !w.Span().Equal(span) || res.OwnPending != nil {
			res.Blocking = append(res.Blocking, w)
			continue
		}
		own := w
		res.OwnPending = &own
	}

	switch {
	case len(res.Blocking) > 0:
		res.Kind = ConflictBlocked
	default:
		for _, w := range cal.Touching(span) {
			if w.Status != WindowWaitlisted {
				res.Adjacent = append(res.Adjacent, w)
			}
		}
		if len(res.Adjacent) > 0 {
			res.Kind = ConflictAdjacent
		} else {
			res.Kind = ConflictFree
		}
	}
	return res, nil
}

// Occupants returns the CONFIRMED and PENDING windows other than w that
// overlap it, whoever holds them. w may only become CONFIRMED while the
// result is empty.
func Occupants(cal *ResourceCalendar, w ReservedWindow) ([]ReservedWindow, error) {
	overlapping, err := cal.Query(w.Start, w.End)
	if err != nil {
		return nil, err
	}

	var out []ReservedWindow
	for _, o := range overlapping {
		if o.ID == w.ID {
			continue
		}
		if o.Status == WindowConfirmed || o.Status == WindowPending {
			out = append(out, o)
		}
	}
	return out, nil
}
