package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tourpad/scheduler/internal/core/domain"
)

type calendarRecord struct {
	ownerID  uuid.UUID
	timeZone string
	policy   domain.Policy
	version  int
	windows  map[uuid.UUID]domain.ReservedWindow
}

// Store keeps calendars and capacity profiles in process memory. It backs
// tests and single-node deployments running without Postgres.
type Store struct {
	mu        sync.RWMutex
	calendars map[uuid.UUID]*calendarRecord
	owners    map[uuid.UUID]uuid.UUID // window id -> resource id
	profiles  map[uuid.UUID]domain.CapacityProfile
	active    map[uuid.UUID]uuid.UUID // resource id -> profile id
}

func NewStore() *Store {
	return &Store{
		calendars: make(map[uuid.UUID]*calendarRecord),
		owners:    make(map[uuid.UUID]uuid.UUID),
		profiles:  make(map[uuid.UUID]domain.CapacityProfile),
		active:    make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *Store) Create(ctx context.Context, cal *domain.ResourceCalendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.calendars[cal.ResourceID]; exists {
		return &domain.Error{Code: domain.CodeDuplicateID, Message: "resource " + cal.ResourceID.String() + " already registered"}
	}

	rec := &calendarRecord{
		ownerID:  cal.OwnerID,
		timeZone: cal.TimeZone,
		policy:   cal.Policy,
		version:  cal.Version,
		windows:  make(map[uuid.UUID]domain.ReservedWindow),
	}
	for _, w := range cal.Windows() {
		rec.windows[w.ID] = w
		s.owners[w.ID] = cal.ResourceID
	}
	s.calendars[cal.ResourceID] = rec
	cal.MarkClean()
	return nil
}

func (s *Store) Load(ctx context.Context, resourceID uuid.UUID) (*domain.ResourceCalendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.calendars[resourceID]
	if !ok {
		return nil, domain.NotFoundError("resource", resourceID)
	}

	cal := domain.NewResourceCalendar(resourceID, rec.ownerID, rec.timeZone, rec.policy)
	cal.Version = rec.version

	windows := make([]domain.ReservedWindow, 0, len(rec.windows))
	for _, w := range rec.windows {
		windows = append(windows, w)
	}
	// Sequence order keeps the calendar's counter monotonic across loads.
	sort.Slice(windows, func(i, j int) bool { return windows[i].Seq < windows[j].Seq })
	if err := cal.Restore(windows); err != nil {
		return nil, err
	}

	if profileID, ok := s.active[resourceID]; ok {
		p := s.profiles[profileID]
		p.BedConfiguration = append([]domain.BedConfig(nil), p.BedConfiguration...)
		cal.Profile = &p
	}
	return cal, nil
}

func (s *Store) Save(ctx context.Context, cal *domain.ResourceCalendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.calendars[cal.ResourceID]
	if !ok {
		return domain.NotFoundError("resource", cal.ResourceID)
	}
	if rec.version != cal.Version {
		return domain.ErrConcurrentModification
	}

	for _, w := range cal.Changed() {
		rec.windows[w.ID] = w
		s.owners[w.ID] = cal.ResourceID
	}
	rec.version++
	cal.Version = rec.version
	cal.MarkClean()
	return nil
}

func (s *Store) ResourceForWindow(ctx context.Context, windowID uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resourceID, ok := s.owners[windowID]
	if !ok {
		return uuid.Nil, domain.NotFoundError("window", windowID)
	}
	return resourceID, nil
}

// OverdueHolds returns PENDING windows whose hold ran out at or before now,
// earliest deadline first.
func (s *Store) OverdueHolds(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []domain.ReservedWindow
	for _, rec := range s.calendars {
		for _, w := range rec.windows {
			if w.HoldExpired(now) {
				due = append(due, w)
			}
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ExpiresAt.Before(*due[j].ExpiresAt) })

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	ids := make([]uuid.UUID, 0, len(due))
	for _, w := range due {
		ids = append(ids, w.ID)
	}
	return ids, nil
}
