package models

import (
	"strings"

	dErrors "inkwell/pkg/domain-errors"
)

// LoginRequest carries credentials presented at /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeValidation, "email is malformed")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

// CreateUserRequest is the admin operation that registers a staff account.
type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func (r *CreateUserRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func (r *CreateUserRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if len(r.Password) < 12 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 12 characters")
	}
	if r.DisplayName == "" {
		return dErrors.New(dErrors.CodeValidation, "display name is required")
	}
	if _, err := ParseRole(r.Role); err != nil {
		return dErrors.New(dErrors.CodeValidation, "role must be one of ADMIN, EDITOR, VIEWER")
	}
	return nil
}

// UpdateRoleRequest changes an account's role. Takes effect on next login.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (r *UpdateRoleRequest) Normalize() {
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func (r *UpdateRoleRequest) Validate() error {
	if _, err := ParseRole(r.Role); err != nil {
		return dErrors.New(dErrors.CodeValidation, "role must be one of ADMIN, EDITOR, VIEWER")
	}
	return nil
}
