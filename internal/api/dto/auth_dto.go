package dto

import (
	"time"

	"github.com/spec-kit/query-service/internal/domain"
)

// RegisterRequest payload for new accounts. Registration always creates a
// client; support accounts are seeded at bootstrap.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest payload for login. The role is part of the credential triple.
type LoginRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
