package model

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a reservation. Only NEW and CONFIRMED
// reservations block a seat; CANCELLED and PASSED are terminal and keep
// the row for history (reservations are never physically deleted).
type Status string

const (
	StatusNew       Status = "NEW"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusPassed    Status = "PASSED"
)

// State machine errors for the cancellation path.
var (
	ErrAlreadyPassed    = errors.New("reservation already passed")
	ErrAlreadyCancelled = errors.New("reservation already cancelled")
)

// AutoConfirmWindow is the lead time below which a new reservation starts
// out CONFIRMED instead of NEW. The boundary is inclusive: a session
// starting in exactly 30 minutes is auto-confirmed.
const AutoConfirmWindow = 30 * time.Minute

// Active reports whether a reservation in this status occupies its seat.
func (s Status) Active() bool {
	return s == StatusNew || s == StatusConfirmed
}

// CanCancel checks whether the state machine allows a transition to
// CANCELLED. It never mutates anything; terminal states return their
// respective sentinel.
func (s Status) CanCancel() error {
	switch s {
	case StatusPassed:
		return ErrAlreadyPassed
	case StatusCancelled:
		return ErrAlreadyCancelled
	}
	return nil
}

// InitialStatus picks the creation-time status for a session starting at
// `start`, observed at `now`.
func InitialStatus(start, now time.Time) Status {
	if start.Sub(now) <= AutoConfirmWindow {
		return StatusConfirmed
	}
	return StatusNew
}

// Reservation mirrors the `reservations` table. SessionStart/SessionEnd
// form a half-open interval in UTC.
type Reservation struct {
	ID           uint64
	UserID       uint64
	SeatID       uint64
	SessionStart time.Time
	SessionEnd   time.Time
	Status       Status
	CreatedAt    time.Time
}

// Range returns the reservation's session interval.
func (r *Reservation) Range() TimeRange {
	return TimeRange{Start: r.SessionStart, End: r.SessionEnd}
}
