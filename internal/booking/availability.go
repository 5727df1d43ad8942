// Package booking implements reservation admission control: deciding
// whether a requested session range can be granted a seat, given the
// existing reservations of that seat pool. The functions are pure so the
// same logic serves both the create path and the reverse search
// ("which coworkings still have a free seat"), with storage-level range
// filters acting only as an optimization.
package booking

import (
	"github.com/avokadim/coworking-backend/internal/model"
)

// FindFreeSeat returns the first candidate seat with no active
// reservation overlapping rng. activeBySeat maps seat ID to that seat's
// reservations; entries may include non-active statuses, which are
// ignored. The tie-break between several free seats is simply iteration
// order and is not a contract.
func FindFreeSeat(seats []model.Seat, activeBySeat map[uint64][]model.Reservation, rng model.TimeRange) (model.Seat, bool) {
	for _, seat := range seats {
		if !Conflicts(activeBySeat[seat.ID], rng) {
			return seat, true
		}
	}
	return model.Seat{}, false
}

// Conflicts reports whether any active (NEW or CONFIRMED) reservation in
// the slice overlaps rng. Cancelled and passed reservations never block.
func Conflicts(reservations []model.Reservation, rng model.TimeRange) bool {
	for i := range reservations {
		r := &reservations[i]
		if !r.Status.Active() {
			continue
		}
		if r.Range().Overlaps(rng) {
			return true
		}
	}
	return false
}

// HasFreeSeat reports whether at least one seat in the pool is free for
// rng. Used by the coworking search listing.
func HasFreeSeat(seats []model.Seat, activeBySeat map[uint64][]model.Reservation, rng model.TimeRange) bool {
	_, ok := FindFreeSeat(seats, activeBySeat, rng)
	return ok
}
