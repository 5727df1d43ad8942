package model

import "time"

// Coworking mirrors the `coworkings` table. The ID is an opaque 32-char
// hex key assigned at creation; identity is immutable.
type Coworking struct {
	ID          string
	Title       string
	Institute   string
	Description string
	Address     string
	CreatedAt   time.Time
}
