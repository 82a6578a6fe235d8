package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/festivo/festivo-api/internal/pkg/jwt"
	"github.com/festivo/festivo-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	repo Repository
	jwt  *jwt.Service
}

// NewService creates auth service
func NewService(repo Repository, jwtService *jwt.Service) *Service {
	return &Service{repo: repo, jwt: jwtService}
}

// Login verifies credentials and issues a signed, time-limited token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByLogin(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is informational
		log.Warn().Err(err).Str("username", user.Username).Msg("failed to record last login")
	}

	return NewLoginResponse(token, s.jwt.TTL(), user), nil
}

// Me returns the identity behind a validated token.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	resp := NewUserResponse(user)
	return &resp, nil
}
