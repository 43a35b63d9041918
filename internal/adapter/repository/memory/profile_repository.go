package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/tourpad/scheduler/internal/core/domain"
)

// ProfileRepository exposes the store's profile half. It shares state with
// Store so a published profile is visible on the next calendar load.
type ProfileRepository struct {
	store *Store
}

func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func (r *ProfileRepository) GetByID(ctx context.Context, profileID uuid.UUID) (*domain.CapacityProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.profiles[profileID]
	if !ok {
		return nil, domain.NotFoundError("capacity profile", profileID)
	}
	p.BedConfiguration = append([]domain.BedConfig(nil), p.BedConfiguration...)
	return &p, nil
}

// Create assigns the next version number for the resource and activates the
// profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *domain.CapacityProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.calendars[profile.ResourceID]; !ok {
		return domain.NotFoundError("resource", profile.ResourceID)
	}
	if _, exists := r.store.profiles[profile.ID]; exists {
		return &domain.Error{Code: domain.CodeDuplicateID, Message: "profile " + profile.ID.String() + " already exists"}
	}

	version := 1
	if prevID, ok := r.store.active[profile.ResourceID]; ok {
		version = r.store.profiles[prevID].Version + 1
	}
	profile.Version = version

	stored := *profile
	stored.BedConfiguration = append([]domain.BedConfig(nil), profile.BedConfiguration...)
	r.store.profiles[stored.ID] = stored
	r.store.active[stored.ResourceID] = stored.ID
	return nil
}
