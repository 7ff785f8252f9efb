// Package v1 holds the request and response bodies of the v1 HTTP API.
package v1

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type SignUpRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate checks required fields. Password confirmation is left to the
// ledger so the mismatch surfaces as its own error type.
func (r *SignUpRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// SessionResponse carries a freshly issued session token. Clients send it
// back in the configured session header.
type SessionResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	SessionToken string    `json:"session_token"`
}

type ProfileResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

type ChangeUsernameRequest struct {
	Username string `json:"username"`
}

func (r *ChangeUsernameRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	if r.NewPassword == "" {
		return fmt.Errorf("new_password is required")
	}
	return nil
}
