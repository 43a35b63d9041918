package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

type BedRequest struct {
	Type  string `json:"type" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

// BookingRequest is the reservation intent submitted by a caller. Start and
// end are ISO-8601: either RFC 3339 instants or YYYY-MM-DD dates, which are
// interpreted in the resource's time zone.
type BookingRequest struct {
	ResourceID     uuid.UUID    `json:"resource_id" validate:"required"`
	RequesterID    uuid.UUID    `json:"requester_id" validate:"required"`
	RequestedStart string       `json:"requested_start" validate:"required"`
	RequestedEnd   string       `json:"requested_end" validate:"required"`
	GuestCount     int          `json:"guest_count" validate:"min=1"`
	Beds           []BedRequest `json:"beds,omitempty" validate:"dive"`
}

func (r BookingRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return InvalidRequestError("booking request: %v", err)
	}
	if r.ResourceID == uuid.Nil || r.RequesterID == uuid.Nil {
		return InvalidRequestError("booking request: resource and requester ids are required")
	}
	return nil
}

// ResolveSpan turns ISO-8601 boundaries into a UTC span. A date-only start
// is midnight in loc; a date-only end is midnight in loc of that date
// (check-out day, exclusive), except when it equals the start date, in which
// case the span covers that whole local day.
func ResolveSpan(start, end string, loc *time.Location) (Span, error) {
	if loc == nil {
		loc = time.UTC
	}

	s, sDate, err := parseBoundary(start, loc)
	if err != nil {
		return Span{}, err
	}
	e, eDate, err := parseBoundary(end, loc)
	if err != nil {
		return Span{}, err
	}

	if sDate && eDate && s.Equal(e) {
		e = e.AddDate(0, 0, 1)
	}

	return NewSpan(s, e)
}

func parseBoundary(v string, loc *time.Location) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if len(v) == len(dateLayout) {
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return time.Time{}, false, InvalidRequestError("invalid date %q", v)
		}
		return t, true, nil
	}

	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false, InvalidRequestError("invalid timestamp %q", v)
	}
	return t, false, nil
}

func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, InvalidRequestError("unknown time zone %q", name)
	}
	return loc, nil
}
