package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ResourceCalendar holds every window ever reserved on one resource.
//
// Windows are kept sorted by start instant together with the longest span
// seen. Any window intersecting [a, b) must start inside (a-maxSpan, b), so
// a query is two binary searches plus a scan of that slice: O(log n + k')
// where k' counts windows starting in the candidate slice. A calendar mixing
// a handful of very long windows with many short ones widens that slice
// toward O(n); lodging stays and concert slots are short enough that this
// has not mattered.
//
// Cancelled windows stay in the calendar for auditing. The calendar is not
// safe for concurrent mutation; the arbiter serializes writers per resource.
type ResourceCalendar struct {
	ResourceID uuid.UUID
	OwnerID    uuid.UUID
	TimeZone   string
	Profile    *CapacityProfile
	Policy     Policy
	Version    int

	windows []*ReservedWindow
	byID    map[uuid.UUID]*ReservedWindow
	maxSpan time.Duration
	seq     int64
	changed map[uuid.UUID]struct{}
}

func NewResourceCalendar(resourceID, ownerID uuid.UUID, timeZone string, policy Policy) *ResourceCalendar {
	return &ResourceCalendar{
		ResourceID: resourceID,
		OwnerID:    ownerID,
		TimeZone:   timeZone,
		Policy:     policy,
		byID:       make(map[uuid.UUID]*ReservedWindow),
		changed:    make(map[uuid.UUID]struct{}),
	}
}

func (c *ResourceCalendar) Location() (*time.Location, error) {
	return LoadLocation(c.TimeZone)
}

// Query returns the live windows intersecting [start, end), ordered by start.
func (c *ResourceCalendar) Query(start, end time.Time) ([]ReservedWindow, error) {
	span, err := NewSpan(start, end)
	if err != nil {
		return nil, err
	}

	var out []ReservedWindow
	c.scan(span.Start.Add(-c.maxSpan), span.End, func(w *ReservedWindow) {
		if w.Status.Live() && w.Span().Overlaps(span) {
			out = append(out, w.clone())
		}
	})
	return out, nil
}

// Touching returns live windows that share a boundary instant with span
// without overlapping it.
func (c *ResourceCalendar) Touching(span Span) []ReservedWindow {
	var out []ReservedWindow
	c.scan(span.Start.Add(-c.maxSpan-time.Millisecond), span.End.Add(time.Millisecond), func(w *ReservedWindow) {
		if w.Status.Live() && w.Span().Touches(span) {
			out = append(out, w.clone())
		}
	})
	return out
}

// scan visits windows whose start lies in (from, to).
func (c *ResourceCalendar) scan(from, to time.Time, fn func(*ReservedWindow)) {
	lo := sort.Search(len(c.windows), func(i int) bool {
		return c.windows[i].Start.After(from)
	})
	hi := sort.Search(len(c.windows), func(i int) bool {
		return !c.windows[i].Start.Before(to)
	})
	for i := lo; i < hi; i++ {
		fn(c.windows[i])
	}
}

// Insert adds a window, assigning its submission sequence when unset.
func (c *ResourceCalendar) Insert(w ReservedWindow) error {
	if _, exists := c.byID[w.ID]; exists {
		return newError(CodeDuplicateID, "window %s already exists", w.ID)
	}
	span, err := NewSpan(w.Start, w.End)
	if err != nil {
		return err
	}
	w.Start, w.End = span.Start, span.End
	w.ResourceID = c.ResourceID

	if w.Seq == 0 {
		c.seq++
		w.Seq = c.seq
	} else if w.Seq > c.seq {
		c.seq = w.Seq
	}

	stored := w.clone()
	idx := sort.Search(len(c.windows), func(i int) bool {
		return c.windows[i].Start.After(stored.Start)
	})
	c.windows = append(c.windows, nil)
	copy(c.windows[idx+1:], c.windows[idx:])
	c.windows[idx] = &stored
	c.byID[stored.ID] = &stored

	if d := span.Duration(); d > c.maxSpan {
		c.maxSpan = d
	}
	c.changed[stored.ID] = struct{}{}
	return nil
}

// Restore loads persisted windows without marking them changed.
func (c *ResourceCalendar) Restore(windows []ReservedWindow) error {
	for _, w := range windows {
		if err := c.Insert(w); err != nil {
			return err
		}
		delete(c.changed, w.ID)
	}
	return nil
}

// Remove soft-deletes a window by marking it CANCELLED.
func (c *ResourceCalendar) Remove(id uuid.UUID, reason CancelReason, at time.Time) (ReservedWindow, error) {
	return c.Transition(id, WindowCancelled, func(w *ReservedWindow) {
		w.CancelReason = reason
		ts := normalize(at)
		w.CancelledAt = &ts
		w.ExpiresAt = nil
	})
}

// Transition moves a window to next if its lifecycle allows it. mutate, when
// non-nil, runs on the stored window after the status change.
func (c *ResourceCalendar) Transition(id uuid.UUID, next WindowStatus, mutate func(*ReservedWindow)) (ReservedWindow, error) {
	w, ok := c.byID[id]
	if !ok {
		return ReservedWindow{}, NotFoundError("window", id)
	}
	if !w.Status.CanTransitionTo(next) {
		return ReservedWindow{}, newError(CodeInvalidTransition, "window %s cannot move from %s to %s", id, w.Status, next)
	}
	w.Status = next
	if next != WindowPending {
		w.ExpiresAt = nil
	}
	if mutate != nil {
		mutate(w)
	}
	c.changed[id] = struct{}{}
	return w.clone(), nil
}

func (c *ResourceCalendar) Window(id uuid.UUID) (ReservedWindow, bool) {
	w, ok := c.byID[id]
	if !ok {
		return ReservedWindow{}, false
	}
	return w.clone(), true
}

// Windows returns every window, including cancelled ones, ordered by start.
func (c *ResourceCalendar) Windows() []ReservedWindow {
	out := make([]ReservedWindow, 0, len(c.windows))
	for _, w := range c.windows {
		out = append(out, w.clone())
	}
	return out
}

// Changed returns windows inserted or mutated since the calendar was loaded
// or last marked clean.
func (c *ResourceCalendar) Changed() []ReservedWindow {
	out := make([]ReservedWindow, 0, len(c.changed))
	for _, w := range c.windows {
		if _, ok := c.changed[w.ID]; ok {
			out = append(out, w.clone())
		}
	}
	return out
}

func (c *ResourceCalendar) MarkClean() {
	c.changed = make(map[uuid.UUID]struct{})
}

// Waitlisted returns waitlisted windows overlapping span in submission order.
func (c *ResourceCalendar) Waitlisted(span Span) []ReservedWindow {
	var out []ReservedWindow
	c.scan(span.Start.Add(-c.maxSpan), span.End, func(w *ReservedWindow) {
		if w.Status == WindowWaitlisted && w.Span().Overlaps(span) {
			out = append(out, w.clone())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// ResourceRegistration describes a bookable resource handed over by the
// surrounding application.
type ResourceRegistration struct {
	ResourceID uuid.UUID `json:"resource_id" validate:"required"`
	OwnerID    uuid.UUID `json:"owner_id" validate:"required"`
	TimeZone   string    `json:"time_zone"`
	Policy     *Policy   `json:"policy,omitempty"`
}

func (r ResourceRegistration) Validate() error {
	if r.ResourceID == uuid.Nil || r.OwnerID == uuid.Nil {
		return InvalidRequestError("resource registration: resource and owner ids are required")
	}
	if _, err := LoadLocation(r.TimeZone); err != nil {
		return err
	}
	return nil
}
