package domain

type CapacityVerdict string

const (
	CapacityOK         CapacityVerdict = "OK"
	CapacityExceedsMax CapacityVerdict = "EXCEEDS_MAX"
	CapacityInvalidBed CapacityVerdict = "INVALID_BED_CONFIG"
)

type CapacityResult struct {
	Verdict CapacityVerdict `json:"verdict"`
	// ExceededBy is how many guests over MaxOccupancy the request is.
	ExceededBy int `json:"exceeded_by,omitempty"`
	// BedType names the first bed type that could not be satisfied.
	BedType string `json:"bed_type,omitempty"`
}

func (r CapacityResult) OK() bool {
	return r.Verdict == CapacityOK
}

// ValidateCapacity checks guest count against the profile's occupancy limit
// and requested beds against its bed configuration. It has no side effects.
func ValidateCapacity(req BookingRequest, profile CapacityProfile) CapacityResult {
	if req.GuestCount > profile.MaxOccupancy {
		return CapacityResult{
			Verdict:    CapacityExceedsMax,
			ExceededBy: req.GuestCount - profile.MaxOccupancy,
		}
	}

	if len(req.Beds) == 0 {
		return CapacityResult{Verdict: CapacityOK}
	}

	available := profile.bedsAvailable()
	requested := make(map[string]int, len(req.Beds))
	var order []string
	for _, b := range req.Beds {
		if _, seen := requested[b.Type]; !seen {
			order = append(order, b.Type)
		}
		requested[b.Type] += b.Count
	}

	for _, bedType := range order {
		if requested[bedType] <= 0 || requested[bedType] > available[bedType] {
			return CapacityResult{Verdict: CapacityInvalidBed, BedType: bedType}
		}
	}
	return CapacityResult{Verdict: CapacityOK}
}
