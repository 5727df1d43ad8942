package model

import "strings"

// PlaceType distinguishes the two kinds of bookable units a coworking
// offers: open-space table places and enclosed meeting rooms.
type PlaceType string

const (
	PlaceTable       PlaceType = "TABLE"
	PlaceMeetingRoom PlaceType = "MEETING_ROOM"
)

// ParsePlaceType normalizes a client-supplied place type. The second
// return value is false for unknown values.
func ParsePlaceType(s string) (PlaceType, bool) {
	switch PlaceType(strings.ToUpper(strings.TrimSpace(s))) {
	case PlaceTable:
		return PlaceTable, true
	case PlaceMeetingRoom:
		return PlaceMeetingRoom, true
	}
	return "", false
}

// Seat mirrors the `seats` table. The pool of seats per coworking and
// place type is created once at admin setup and never mutated afterwards.
// Label and Description are nil for anonymous table places.
type Seat struct {
	ID          uint64
	CoworkingID string
	PlaceType   PlaceType
	Label       *string
	Description *string
	SeatsCount  uint16
}
