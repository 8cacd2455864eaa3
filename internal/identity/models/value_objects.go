package models

import (
	"strings"

	dErrors "inkwell/pkg/domain-errors"
)

// Role is the closed set of authorization levels. The guard compares a
// session's role snapshot against an explicit allowed set at every call site.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEditor || r == RoleViewer
}

func (r Role) String() string {
	return string(r)
}

// In reports whether the role is a member of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// ParseRole validates a role string at trust boundaries.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return role, nil
}

// NormalizeEmail lowercases and trims an email for case-insensitive uniqueness.
// Rate-limit scopes and store lookups both depend on this normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
