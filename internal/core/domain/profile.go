package domain

import (
	"time"

	"github.com/google/uuid"
)

// Money is an amount in minor currency units (cents). A deployment runs in
// a single currency; conversion is not handled here.
type Money int64

type BedConfig struct {
	Type  string `json:"type" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

// CapacityProfile is immutable once published. A change to a resource's
// limits or rates is a new profile version.
type CapacityProfile struct {
	ID                 uuid.UUID   `json:"id"`
	ResourceID         uuid.UUID   `json:"resource_id"`
	Version            int         `json:"version"`
	MaxOccupancy       int         `json:"max_occupancy" validate:"min=1"`
	BedConfiguration   []BedConfig `json:"bed_configuration" validate:"dive"`
	BaseRate           Money       `json:"base_rate" validate:"min=0"`
	AdditionalGuestFee Money       `json:"additional_guest_fee" validate:"min=0"`
	CleaningFee        Money       `json:"cleaning_fee" validate:"min=0"`
	CreatedAt          time.Time   `json:"created_at"`
}

func (p CapacityProfile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return InvalidRequestError("capacity profile: %v", err)
	}
	return nil
}

func (p CapacityProfile) bedsAvailable() map[string]int {
	out := make(map[string]int, len(p.BedConfiguration))
	for _, b := range p.BedConfiguration {
		out[b.Type] += b.Count
	}
	return out
}

func (p CapacityProfile) clone() CapacityProfile {
	c := p
	if p.BedConfiguration != nil {
		c.BedConfiguration = append([]BedConfig(nil), p.BedConfiguration...)
	}
	return c
}

// Policy controls how the arbiter commits FREE requests and how many
// requests may queue behind a taken range.
type Policy struct {
	// HoldTTL > 0 keeps new bookings PENDING until confirmed or expired.
	HoldTTL time.Duration `json:"hold_ttl"`
	// WaitlistMax <= 0 disables waitlisting.
	WaitlistMax int `json:"waitlist_max"`
}
