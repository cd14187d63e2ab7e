package auth

import (
	"strings"
	"time"

	"courier-booking/models/user"
	"courier-booking/types/validation"
)

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"omitempty,max=255"`
	LastName  string `json:"last_name" validate:"omitempty,max=255"`
}

func (r *SignupRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}

// SessionUser is the user record handed to clients and kept in their session store
type SessionUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	IsAdmin   bool    `json:"is_admin,omitempty"`
}

func NewSessionUser(u user.User) SessionUser {
	return SessionUser{
		ID:        u.Uuid,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}

// AuthPayload is returned by signup and login
type AuthPayload struct {
	User      SessionUser `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ToUser maps the signup request onto a new account without credentials
func (r SignupRequest) ToUser(uuid string) user.User {
	return user.User{
		Uuid:      uuid,
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		FirstName: optional(r.FirstName),
		LastName:  optional(r.LastName),
	}
}
