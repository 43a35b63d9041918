package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tourpad/scheduler/internal/core/domain"
	"github.com/tourpad/scheduler/internal/core/ports"
)

// BookingService is the request arbiter: the only writer of resource
// calendars. Every mutation runs under the resource's lock, so requests for
// one resource are decided strictly in arrival order while different
// resources proceed in parallel.
type BookingService struct {
	calendars     ports.CalendarRepository
	profiles      ports.ProfileRepository
	locker        ports.ResourceLocker
	cache         ports.AvailabilityCache
	expiry        ports.ExpiryScheduler
	clock         Clock
	defaultPolicy domain.Policy
	logger        *zap.Logger
	states        stateTable
}

type Option func(*BookingService)

func WithCache(cache ports.AvailabilityCache) Option {
	return func(s *BookingService) { s.cache = cache }
}

func WithExpiryScheduler(expiry ports.ExpiryScheduler) Option {
	return func(s *BookingService) { s.expiry = expiry }
}

func WithClock(clock Clock) Option {
	return func(s *BookingService) { s.clock = clock }
}

// WithDefaultPolicy sets the policy given to resources registered without one.
func WithDefaultPolicy(p domain.Policy) Option {
	return func(s *BookingService) { s.defaultPolicy = p }
}

func NewBookingService(
	calendars ports.CalendarRepository,
	profiles ports.ProfileRepository,
	locker ports.ResourceLocker,
	logger *zap.Logger,
	opts ...Option,
) *BookingService {
	s := &BookingService{
		calendars: calendars,
		profiles:  profiles,
		locker:    locker,
		clock:     RealClock{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports where the arbiter stands for a resource.
func (s *BookingService) State(resourceID uuid.UUID) ArbiterState {
	return s.states.get(resourceID)
}

func (s *BookingService) RegisterResource(ctx context.Context, reg domain.ResourceRegistration) (*domain.ResourceCalendar, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	policy := s.defaultPolicy
	if reg.Policy != nil {
		policy = *reg.Policy
	}

	cal := domain.NewResourceCalendar(reg.ResourceID, reg.OwnerID, reg.TimeZone, policy)
	if err := s.calendars.Create(ctx, cal); err != nil {
		return nil, fmt.Errorf("create calendar: %w", err)
	}

	s.logger.Info("Resource registered",
		zap.String("resource_id", reg.ResourceID.String()),
		zap.String("owner_id", reg.OwnerID.String()),
		zap.String("time_zone", reg.TimeZone),
	)
	return cal, nil
}

func (s *BookingService) PublishProfile(ctx context.Context, profile domain.CapacityProfile) (*domain.CapacityProfile, error) {
	if profile.ResourceID == uuid.Nil {
		return nil, domain.InvalidRequestError("capacity profile: resource id is required")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, profile.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("lock resource %s: %w", profile.ResourceID, err)
	}
	defer release()

	profile.ID = uuid.New()
	profile.CreatedAt = s.clock.Now().UTC()
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("Capacity profile published",
		zap.String("resource_id", profile.ResourceID.String()),
		zap.String("profile_id", profile.ID.String()),
		zap.Int("version", profile.Version),
	)
	return &profile, nil
}

func (s *BookingService) SubmitBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, req.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("lock resource %s: %w", req.ResourceID, err)
	}
	defer release()

	s.states.set(req.ResourceID, StateEvaluating)
	outcome, err := s.submitLocked(ctx, req)
	if err != nil {
		s.states.set(req.ResourceID, StateIdle)
		return nil, err
	}
	s.states.set(req.ResourceID, stateFor(outcome))

	fields := []zap.Field{
		zap.String("resource_id", req.ResourceID.String()),
		zap.String("requester_id", req.RequesterID.String()),
		zap.String("status", string(outcome.Status)),
	}
	if outcome.Window != nil {
		fields = append(fields, zap.String("window_id", outcome.Window.ID.String()))
	}
	if outcome.Reason != "" {
		fields = append(fields, zap.String("reason", string(outcome.Reason)))
	}
	s.logger.Info("Booking decided", fields...)

	return outcome, nil
}

func (s *BookingService) submitLocked(ctx context.Context, req domain.BookingRequest) (*domain.BookingOutcome, error) {
	cal, err := s.calendars.Load(ctx, req.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	if cal.Profile == nil {
		return nil, domain.InvalidRequestError("resource %s has no active capacity profile", req.ResourceID)
	}

	loc, err := cal.Location()
	if err != nil {
		return nil, err
	}
	span, err := domain.ResolveSpan(req.RequestedStart, req.RequestedEnd, loc)
	if err != nil {
		return nil, err
	}

	outcome, err := arbitrate(cal, req, span, loc, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if outcome.Status == domain.OutcomeRejected || outcome.Replayed {
		return outcome, nil
	}

	if err := s.persist(ctx, cal); err != nil {
		return nil, err
	}

	if outcome.Status == domain.OutcomePending && s.expiry != nil {
		w := outcome.Window
		if err := s.expiry.ScheduleExpiry(ctx, w.ID, *w.ExpiresAt); err != nil {
			s.logger.Warn("Failed to schedule hold expiry",
				zap.String("window_id", w.ID.String()),
				zap.Error(err),
			)
		}
	}

	return outcome, nil
}

// CancelBooking releases a window on behalf of its holder or the resource
// owner, promoting waitlisted requests into the freed range.
func (s *BookingService) CancelBooking(ctx context.Context, windowID, actorID uuid.UUID) (*domain.CancelOutcome, error) {
	resourceID, err := s.calendars.ResourceForWindow(ctx, windowID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CancelOutcome{Status: domain.CancelNotFound, WindowID: windowID}, nil
		}
		return nil, fmt.Errorf("find window: %w", err)
	}

	release, err := s.locker.Lock(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("lock resource %s: %w", resourceID, err)
	}
	defer release()

	cal, err := s.calendars.Load(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}

	w, ok := cal.Window(windowID)
	if !ok {
		return &domain.CancelOutcome{Status: domain.CancelNotFound, WindowID: windowID}, nil
	}

	var reason domain.CancelReason
	switch actorID {
	case w.HolderID:
		reason = domain.CancelByHolder
	case cal.OwnerID:
		reason = domain.CancelByOwner
	default:
		s.logger.Warn("Cancellation refused",
			zap.String("window_id", windowID.String()),
			zap.String("actor_id", actorID.String()),
		)
		return &domain.CancelOutcome{Status: domain.CancelNotAuthorized, WindowID: windowID}, nil
	}

	outcome, err := releaseWindow(cal, windowID, reason, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cal); err != nil {
		return nil, err
	}

	s.logger.Info("Booking cancelled",
		zap.String("window_id", windowID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("status", string(outcome.Status)),
		zap.Int("promoted", len(outcome.PromotedIDs)),
	)
	return outcome, nil
}

// ConfirmBooking turns a PENDING hold into a CONFIRMED booking, typically
// once payment has gone through. A hold that has already run out is expired
// instead and reported as rejected with reason EXPIRED. WAITLISTED windows
// are only confirmed by promotion.
func (s *BookingService) ConfirmBooking(ctx context.Context, windowID, actorID uuid.UUID) (*domain.BookingOutcome, error) {
	resourceID, err := s.calendars.ResourceForWindow(ctx, windowID)
	if err != nil {
		return nil, fmt.Errorf("find window: %w", err)
	}

	release, err := s.locker.Lock(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("lock resource %s: %w", resourceID, err)
	}
	defer release()

	cal, err := s.calendars.Load(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}

	w, ok := cal.Window(windowID)
	if !ok {
		return nil, domain.NotFoundError("window", windowID)
	}
	if actorID != w.HolderID && actorID != cal.OwnerID {
		return nil, domain.ErrNotAuthorized
	}
	if w.Status == domain.WindowConfirmed {
		return &domain.BookingOutcome{Status: domain.OutcomeConfirmed, Window: &w, Quote: s.quoteWindow(cal, w)}, nil
	}

	if w.Status != domain.WindowPending {
		return nil, &domain.Error{
			Code:    domain.CodeInvalidTransition,
			Message: fmt.Sprintf("window %s is %s, only PENDING holds can be confirmed", windowID, w.Status),
		}
	}

	now := s.clock.Now()
	if w.HoldExpired(now) {
		if _, err := releaseWindow(cal, windowID, domain.CancelExpired, now); err != nil {
			return nil, err
		}
		if err := s.persist(ctx, cal); err != nil {
			return nil, err
		}
		expired, _ := cal.Window(windowID)
		return &domain.BookingOutcome{Status: domain.OutcomeRejected, Reason: domain.ReasonExpired, Window: &expired}, nil
	}

	occupants, err := domain.Occupants(cal, w)
	if err != nil {
		return nil, err
	}
	if len(occupants) > 0 {
		s.logger.Warn("Hold overlaps live windows, refusing to confirm",
			zap.String("window_id", windowID.String()),
			zap.Int("occupants", len(occupants)),
		)
		return &domain.BookingOutcome{Status: domain.OutcomeRejected, Reason: domain.ReasonConflict, Window: &w, Blocking: occupants}, nil
	}

	confirmed, err := cal.Transition(windowID, domain.WindowConfirmed, nil)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cal); err != nil {
		return nil, err
	}

	s.logger.Info("Hold confirmed",
		zap.String("window_id", windowID.String()),
		zap.String("actor_id", actorID.String()),
	)
	return &domain.BookingOutcome{Status: domain.OutcomeConfirmed, Window: &confirmed, Quote: s.quoteWindow(cal, confirmed)}, nil
}

// ExpireBooking cancels a PENDING hold whose deadline has passed. The core
// runs no timers of its own; a sweeper or queued task drives this.
func (s *BookingService) ExpireBooking(ctx context.Context, windowID uuid.UUID) (*domain.CancelOutcome, error) {
	resourceID, err := s.calendars.ResourceForWindow(ctx, windowID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CancelOutcome{Status: domain.CancelNotFound, WindowID: windowID}, nil
		}
		return nil, fmt.Errorf("find window: %w", err)
	}

	release, err := s.locker.Lock(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("lock resource %s: %w", resourceID, err)
	}
	defer release()

	cal, err := s.calendars.Load(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}

	w, ok := cal.Window(windowID)
	if !ok {
		return &domain.CancelOutcome{Status: domain.CancelNotFound, WindowID: windowID}, nil
	}
	if w.Status != domain.WindowPending {
		return nil, &domain.Error{
			Code:    domain.CodeInvalidTransition,
			Message: fmt.Sprintf("window %s is %s, only PENDING holds expire", windowID, w.Status),
		}
	}

	now := s.clock.Now()
	if !w.HoldExpired(now) {
		return nil, domain.ErrHoldActive
	}

	outcome, err := releaseWindow(cal, windowID, domain.CancelExpired, now)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cal); err != nil {
		return nil, err
	}

	s.logger.Info("Hold expired",
		zap.String("window_id", windowID.String()),
		zap.Int("promoted", len(outcome.PromotedIDs)),
	)
	return outcome, nil
}

// ExpireOverdue expires up to limit holds that ran out before now and
// returns how many were expired.
func (s *BookingService) ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error) {
	ids, err := s.calendars.OverdueHolds(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("list overdue holds: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	s.logger.Info("Expiring overdue holds", zap.Int("count", len(ids)))

	expired := 0
	for _, id := range ids {
		if _, err := s.ExpireBooking(ctx, id); err != nil {
			s.logger.Warn("Failed to expire hold",
				zap.String("window_id", id.String()),
				zap.Error(err),
			)
			continue
		}
		expired++
	}
	return expired, nil
}

// QueryAvailability lists live windows on a resource within [start, end).
// It takes no lock, so it may miss a booking committed concurrently. Cached
// results are served without loading the calendar.
func (s *BookingService) QueryAvailability(ctx context.Context, resourceID uuid.UUID, start, end string) ([]domain.ReservedWindow, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, resourceID, start, end)
		if err != nil {
			s.logger.Warn("Availability cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	cal, err := s.calendars.Load(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}

	loc, err := cal.Location()
	if err != nil {
		return nil, err
	}
	span, err := domain.ResolveSpan(start, end, loc)
	if err != nil {
		return nil, err
	}

	windows, err := cal.Query(span.Start, span.End)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, resourceID, start, end, cal.Version, windows); err != nil {
			s.logger.Warn("Availability cache write failed", zap.Error(err))
		}
	}
	return windows, nil
}

func (s *BookingService) QuotePrice(ctx context.Context, profileID uuid.UUID, nights, guestCount int) (domain.Money, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return 0, fmt.Errorf("get profile: %w", err)
	}
	return domain.Quote(*profile, nights, guestCount)
}

func (s *BookingService) quoteWindow(cal *domain.ResourceCalendar, w domain.ReservedWindow) domain.Money {
	loc, err := cal.Location()
	if err != nil {
		return 0
	}
	quote, err := domain.Quote(w.Profile, domain.Nights(w.Span(), loc), w.RequestedCapacity)
	if err != nil {
		return 0
	}
	return quote
}

func (s *BookingService) persist(ctx context.Context, cal *domain.ResourceCalendar) error {
	if err := s.calendars.Save(ctx, cal); err != nil {
		return fmt.Errorf("save calendar: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cal.ResourceID, cal.Version); err != nil {
			s.logger.Warn("Failed to invalidate availability cache",
				zap.String("resource_id", cal.ResourceID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}
