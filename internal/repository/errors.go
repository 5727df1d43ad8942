// Package repository implements MySQL persistence for the reservation
// backend. Domain failures are reported through sentinel errors so that
// handlers can translate each into a distinct HTTP response; anything
// else bubbling up from database/sql is an infrastructure error and is
// surfaced opaquely.
package repository

import "errors"

// ErrCoworkingNotFound is returned when a coworking ID is unknown.
var ErrCoworkingNotFound = errors.New("coworking not found")

// ErrNonBusinessDay is returned when a reservation is attempted on a
// date for which the coworking registered a business exception.
var ErrNonBusinessDay = errors.New("coworking does not work on this date")

// ErrNoAvailableSeat is returned when every seat of the requested type
// is occupied for the requested range. This is an expected outcome under
// load, not a bug.
var ErrNoAvailableSeat = errors.New("no seat available for this timestamp range")

// ErrReservationNotFound is returned when a reservation ID is unknown.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrForbidden is returned when the caller does not own the resource
// they are operating on.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned on registration with a duplicate email.
var ErrEmailExists = errors.New("email already exists")

// ErrSessionNotFound is returned when a refresh session is missing,
// expired or revoked.
var ErrSessionNotFound = errors.New("session not found")
