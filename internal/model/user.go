package model

import "time"

// User mirrors the `users` table.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	FullName     string
	Role         string // ADMIN | CUSTOMER
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
