package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tourpad/scheduler/internal/core/domain"
)

// ResourceLocker grants exclusive access to one resource's calendar. The
// returned release func must be called exactly once.
type ResourceLocker interface {
	Lock(ctx context.Context, resourceID uuid.UUID) (release func(), err error)
}

// AvailabilityCache memoizes query results per resource and raw range. Set
// must drop a result whose version is older than the last Invalidate.
type AvailabilityCache interface {
	Get(ctx context.Context, resourceID uuid.UUID, start, end string) ([]domain.ReservedWindow, bool, error)
	Set(ctx context.Context, resourceID uuid.UUID, start, end string, version int, windows []domain.ReservedWindow) error
	Invalidate(ctx context.Context, resourceID uuid.UUID, version int) error
}

// ExpiryScheduler arranges for ExpireBooking to be called once a hold runs
// out. Scheduling is best effort; the sweeper catches anything missed.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, windowID uuid.UUID, at time.Time) error
}
