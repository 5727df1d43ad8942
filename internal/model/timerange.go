package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a requested session range is malformed.
// All validation failures wrap this sentinel so callers can match with
// errors.Is while still surfacing a precise message.
var ErrInvalidRange = errors.New("invalid time range")

// TimeRange is a half-open interval [Start, End) on the UTC timeline.
// Start is inclusive, End is exclusive: a reservation ending at 11:00
// does not conflict with one starting at 11:00.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange validates a requested session range against the reference
// time `now`. All instants are normalized to UTC before any comparison.
// The range must end after it starts, must not span midnight, and must
// start strictly in the future.
func NewTimeRange(start, end, now time.Time) (TimeRange, error) {
	start = start.UTC()
	end = end.UTC()
	if !end.After(start) {
		return TimeRange{}, fmt.Errorf("%w: session_end must be after session_start", ErrInvalidRange)
	}
	if !sameDay(start, end) {
		return TimeRange{}, fmt.Errorf("%w: reservation cannot span midnight", ErrInvalidRange)
	}
	if !start.After(now.UTC()) {
		return TimeRange{}, fmt.Errorf("%w: session_start must be in the future", ErrInvalidRange)
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints are not an overlap. This predicate is the single source of
// truth for seat conflicts; SQL range filters only pre-narrow candidates.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Day returns the UTC calendar date of the range (both endpoints share it).
func (r TimeRange) Day() time.Time {
	y, m, d := r.Start.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
