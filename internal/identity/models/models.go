package models

import (
	"time"

	id "inkwell/pkg/domain"
)

// This file contains pure domain models for identities: entities
// that should not depend on transport or HTTP-specific concerns.

// User represents a staff account in the admin application.
// The password credential is stored as a bcrypt hash, never in plaintext.
// Users are never hard-deleted while audit records reference them; use Deactivate.
type User struct {
	ID           id.UserID
	Email        string // stored lowercase, unique case-insensitively
	PasswordHash string
	DisplayName  string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanLogin reports whether the account may authenticate at all.
func (u *User) CanLogin() bool {
	return u.Active
}

// Deactivate soft-disables the account. Returns false if already inactive.
func (u *User) Deactivate(at time.Time) bool {
	if !u.Active {
		return false
	}
	u.Active = false
	u.UpdatedAt = at
	return true
}

// ChangeRole updates the role. The new role takes effect on next session
// issuance only; sessions already issued keep their role snapshot.
func (u *User) ChangeRole(role Role, at time.Time) {
	u.Role = role
	u.UpdatedAt = at
}

// Principal is the identity projection carried through the request context
// after the session token has been validated. It is the audit actor.
type Principal struct {
	UserID id.UserID
	Role   Role
}

// LoginResult is returned by the authenticator on success.
type LoginResult struct {
	Token       string    `json:"token"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserSummary is the JSON projection for admin user listings.
type UserSummary struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary converts a domain user to its response projection.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
	}
}
