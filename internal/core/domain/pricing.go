package domain

import "time"

// Quote prices a stay: base rate per night, a fee for every guest beyond the
// first, and a flat cleaning fee.
func Quote(profile CapacityProfile, nights, guestCount int) (Money, error) {
	if nights < 1 {
		return 0, newError(CodeInvalidDuration, "nights must be at least 1, got %d", nights)
	}

	extraGuests := guestCount - 1
	if extraGuests < 0 {
		extraGuests = 0
	}

	total := profile.BaseRate*Money(nights) +
		profile.AdditionalGuestFee*Money(extraGuests) +
		profile.CleaningFee
	return total, nil
}

// Nights counts local calendar days between the span boundaries, never
// fewer than one (a same-day concert slot is billed as one night).
func Nights(span Span, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	s := span.Start.In(loc)
	e := span.End.In(loc)
	sDay := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	eDay := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)

	n := int(eDay.Sub(sDay).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}
