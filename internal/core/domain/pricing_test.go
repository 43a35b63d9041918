package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourpad/scheduler/internal/core/domain"
)

func TestQuote(t *testing.T) {
	profile := domain.CapacityProfile{BaseRate: 100, AdditionalGuestFee: 20, CleaningFee: 50}

	total, err := domain.Quote(profile, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(370), total)

	solo, err := domain.Quote(profile, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(150), solo)

	noGuests, err := domain.Quote(profile, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(250), noGuests)
}

func TestQuote_InvalidDuration(t *testing.T) {
	_, err := domain.Quote(domain.CapacityProfile{BaseRate: 100}, 0, 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidDuration))
}

func TestNights(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	stay, err := domain.ResolveSpan("2025-06-01", "2025-06-04", loc)
	require.NoError(t, err)
	assert.Equal(t, 3, domain.Nights(stay, loc))

	show, err := domain.ResolveSpan("2025-06-01T19:00:00-05:00", "2025-06-01T22:00:00-05:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 1, domain.Nights(show, loc))
}
