// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can place orders. Name and email are unique
// across the system. Accounts are never hard-deleted; revoking access
// flips the Allow flag instead so historical orders keep a valid owner.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Name         string    // Unique display name.
	Email        string    // Unique contact email, used as the login identifier.
	PasswordHash string    // Salted bcrypt hash of the user's password.
	Allow        bool      // False when the account has been disabled.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
