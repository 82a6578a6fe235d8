package auth

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest for POST /auth/login. Username accepts the account's username
// or email.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// UserResponse represents the authenticated identity in API responses
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// LoginResponse returned after a successful login
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // seconds until the token expires
	User      UserResponse `json:"user"`
}

// NewUserResponse creates UserResponse from an admin user
func NewUserResponse(u *AdminUser) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// NewLoginResponse builds the login payload
func NewLoginResponse(token string, ttl time.Duration, u *AdminUser) *LoginResponse {
	return &LoginResponse{
		Token:     token,
		ExpiresIn: int(ttl.Seconds()),
		User:      NewUserResponse(u),
	}
}
