package domain

import "time"

// User is the authenticated principal. PasswordHash never leaves the service.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
