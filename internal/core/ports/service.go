package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tourpad/scheduler/internal/core/domain"
)

type BookingService interface {
	SubmitBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingOutcome, error)
	CancelBooking(ctx context.Context, windowID, actorID uuid.UUID) (*domain.CancelOutcome, error)
	ConfirmBooking(ctx context.Context, windowID, actorID uuid.UUID) (*domain.BookingOutcome, error)
	ExpireBooking(ctx context.Context, windowID uuid.UUID) (*domain.CancelOutcome, error)
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error)
	QueryAvailability(ctx context.Context, resourceID uuid.UUID, start, end string) ([]domain.ReservedWindow, error)
	QuotePrice(ctx context.Context, profileID uuid.UUID, nights, guestCount int) (domain.Money, error)
	RegisterResource(ctx context.Context, reg domain.ResourceRegistration) (*domain.ResourceCalendar, error)
	PublishProfile(ctx context.Context, profile domain.CapacityProfile) (*domain.CapacityProfile, error)
}
