package domain_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourpad/scheduler/internal/core/domain"
)

func TestCalendarQuery_HalfOpen(t *testing.T) {
	cal := newCalendar()
	w := window(t, "2025-06-03", "2025-06-05", domain.WindowConfirmed, uuid.New())
	require.NoError(t, cal.Insert(w))

	got, err := cal.Query(day(t, "2025-06-01"), day(t, "2025-06-03"))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = cal.Query(day(t, "2025-06-04"), day(t, "2025-06-10"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, w.ID, got[0].ID)

	got, err = cal.Query(day(t, "2025-06-05"), day(t, "2025-06-06"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCalendarQuery_InvalidRange(t *testing.T) {
	cal := newCalendar()

	_, err := cal.Query(day(t, "2025-06-03"), day(t, "2025-06-03"))
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))

	_, err = cal.Query(day(t, "2025-06-04"), day(t, "2025-06-03"))
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))
}

func TestCalendarQuery_SkipsCancelled(t *testing.T) {
	cal := newCalendar()
	w := window(t, "2025-06-01", "2025-06-03", domain.WindowConfirmed, uuid.New())
	require.NoError(t, cal.Insert(w))

	removed, err := cal.Remove(w.ID, domain.CancelByHolder, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.WindowCancelled, removed.Status)

	got, err := cal.Query(day(t, "2025-06-01"), day(t, "2025-06-03"))
	require.NoError(t, err)
	assert.Empty(t, got)

	kept, ok := cal.Window(w.ID)
	require.True(t, ok)
	assert.Equal(t, domain.WindowCancelled, kept.Status)
	assert.Equal(t, domain.CancelByHolder, kept.CancelReason)
	assert.Len(t, cal.Windows(), 1)
}

func TestCalendarInsert_DuplicateID(t *testing.T) {
	cal := newCalendar()
	w := window(t, "2025-06-01", "2025-06-03", domain.WindowConfirmed, uuid.New())
	require.NoError(t, cal.Insert(w))

	err := cal.Insert(w)
	assert.True(t, errors.Is(err, domain.ErrDuplicateID))
}

func TestCalendarInsert_AssignsSequence(t *testing.T) {
	cal := newCalendar()
	a := window(t, "2025-06-05", "2025-06-06", domain.WindowConfirmed, uuid.New())
	b := window(t, "2025-06-01", "2025-06-02", domain.WindowConfirmed, uuid.New())
	require.NoError(t, cal.Insert(a))
	require.NoError(t, cal.Insert(b))

	all := cal.Windows()
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "ordered by start")
	assert.Equal(t, int64(2), all[0].Seq)
	assert.Equal(t, int64(1), all[1].Seq)
}

func TestCalendarRemove_Unknown(t *testing.T) {
	cal := newCalendar()
	_, err := cal.Remove(uuid.New(), domain.CancelByOwner, time.Now())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCalendarTransition_Lifecycle(t *testing.T) {
	cal := newCalendar()
	w := window(t, "2025-06-01", "2025-06-03", domain.WindowConfirmed, uuid.New())
	require.NoError(t, cal.Insert(w))

	_, err := cal.Transition(w.ID, domain.WindowWaitlisted, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = cal.Remove(w.ID, domain.CancelByOwner, time.Now())
	require.NoError(t, err)

	_, err = cal.Transition(w.ID, domain.WindowConfirmed, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestCalendarChanged_RestoreIsClean(t *testing.T) {
	cal := newCalendar()
	persisted := window(t, "2025-06-01", "2025-06-03", domain.WindowConfirmed, uuid.New())
	persisted.Seq = 7
	require.NoError(t, cal.Restore([]domain.ReservedWindow{persisted}))
	assert.Empty(t, cal.Changed())

	fresh := window(t, "2025-06-04", "2025-06-05", domain.WindowConfirmed, uuid.New())
	require.NoError(t, cal.Insert(fresh))
	changed := cal.Changed()
	require.Len(t, changed, 1)
	assert.Equal(t, fresh.ID, changed[0].ID)
	assert.Equal(t, int64(8), changed[0].Seq)

	cal.MarkClean()
	assert.Empty(t, cal.Changed())
}

func TestCalendarQuery_LongWindowStillFound(t *testing.T) {
	cal := newCalendar()
	long := window(t, "2025-01-01", "2025-12-31", domain.WindowConfirmed, uuid.New())
	require.NoError(t, cal.Insert(long))
	for d := 1; d <= 20; d++ {
		s := time.Date(2025, 3, d, 10, 0, 0, 0, time.UTC)
		require.NoError(t, cal.Insert(domain.ReservedWindow{
			ID: uuid.New(), Start: s, End: s.Add(time.Hour), Status: domain.WindowWaitlisted,
		}))
	}

	got, err := cal.Query(day(t, "2025-07-01"), day(t, "2025-07-02"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, long.ID, got[0].ID)
}

// The index must agree with a linear scan for any mix of windows.
func TestCalendarQuery_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cal := newCalendar()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var all []domain.ReservedWindow
	for i := 0; i < 300; i++ {
		s := base.Add(time.Duration(rng.Intn(60*24)) * time.Hour)
		e := s.Add(time.Duration(1+rng.Intn(96)) * time.Hour)
		w := domain.ReservedWindow{ID: uuid.New(), Start: s, End: e, Status: domain.WindowConfirmed}
		if rng.Intn(5) == 0 {
			w.Status = domain.WindowWaitlisted
		}
		require.NoError(t, cal.Insert(w))
		all = append(all, w)
	}

	for i := 0; i < 200; i++ {
		qs := base.Add(time.Duration(rng.Intn(60*24)) * time.Hour)
		qe := qs.Add(time.Duration(1+rng.Intn(72)) * time.Hour)
		q := domain.Span{Start: qs, End: qe}

		want := map[uuid.UUID]bool{}
		for _, w := range all {
			if w.Span().Overlaps(q) {
				want[w.ID] = true
			}
		}

		got, err := cal.Query(qs, qe)
		require.NoError(t, err)
		assert.Len(t, got, len(want))
		for _, w := range got {
			assert.True(t, want[w.ID])
		}
	}
}
