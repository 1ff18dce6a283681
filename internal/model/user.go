// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account in the credential store.
//
// The PasswordHash is a full bcrypt string ($2a$12$...) — the salt and cost
// are embedded in it, so there is no separate salt column. The hash is never
// serialized to JSON (json:"-") and never leaves the server.
//
// Users are immutable once created: no update or delete operation exists on
// the exposed surface. Uniqueness on Username is pre-checked at registration
// time, with a UNIQUE constraint in the users table as a storage backstop.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
