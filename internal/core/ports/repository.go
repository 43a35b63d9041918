package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tourpad/scheduler/internal/core/domain"
)

// CalendarRepository persists resource calendars. Save must write the
// calendar's changed windows atomically and reject a stale Version with
// domain.ErrConcurrentModification.
type CalendarRepository interface {
	Create(ctx context.Context, cal *domain.ResourceCalendar) error
	Load(ctx context.Context, resourceID uuid.UUID) (*domain.ResourceCalendar, error)
	Save(ctx context.Context, cal *domain.ResourceCalendar) error
	ResourceForWindow(ctx context.Context, windowID uuid.UUID) (uuid.UUID, error)
	OverdueHolds(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, profileID uuid.UUID) (*domain.CapacityProfile, error)
	// Create stores a new profile version and makes it the resource's
	// active profile.
	Create(ctx context.Context, profile *domain.CapacityProfile) error
}
