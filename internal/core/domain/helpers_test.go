package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tourpad/scheduler/internal/core/domain"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return ts
}

func window(t *testing.T, start, end string, status domain.WindowStatus, holder uuid.UUID) domain.ReservedWindow {
	t.Helper()
	return domain.ReservedWindow{
		ID:                uuid.New(),
		HolderID:          holder,
		Start:             day(t, start),
		End:               day(t, end),
		Status:            status,
		RequestedCapacity: 1,
	}
}

func newCalendar() *domain.ResourceCalendar {
	return domain.NewResourceCalendar(uuid.New(), uuid.New(), "UTC", domain.Policy{WaitlistMax: 5})
}
