// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account that owns time entries.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthContext carries the authenticated identity extracted from a
// bearer token. Handlers trust these values without re-verification.
type AuthContext struct {
	UserID string
	Email  string
}
