// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// ReservationEvent is published whenever a reservation changes state at
// the API boundary (created or cancelled). It carries enough denormalized
// detail for downstream consumers to log or notify without querying the
// primary database.
type ReservationEvent struct {
	Kind           string  `json:"kind"` // "created" | "cancelled"
	ReservationID  uint64  `json:"reservation_id"`
	UserID         uint64  `json:"user_id"`
	CoworkingID    string  `json:"coworking_id"`
	CoworkingTitle string  `json:"coworking_title"`
	SeatID         uint64  `json:"seat_id"`
	SeatLabel      *string `json:"seat_label,omitempty"`
	PlaceType      string  `json:"place_type"`
	Status         string  `json:"status"`
	SessionStart   string  `json:"session_start"` // RFC 3339, UTC
	SessionEnd     string  `json:"session_end"`
	OccurredAt     string  `json:"occurred_at"`
}
