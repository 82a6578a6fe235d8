package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/festivo/festivo-api/internal/pkg/jwt"
	"github.com/festivo/festivo-api/internal/pkg/password"
)

type fakeAdminRepo struct {
	user *AdminUser

	lastLoginFor uuid.UUID
	lastLoginErr error
}

func (f *fakeAdminRepo) Create(ctx context.Context, user *AdminUser) error {
	f.user = user
	return nil
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeAdminRepo) GetByLogin(ctx context.Context, login string) (*AdminUser, error) {
	if f.user != nil && (f.user.Username == login || f.user.Email == login) {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeAdminRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

func (f *fakeAdminRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	f.lastLoginFor = id
	return f.lastLoginErr
}

func seedAdmin(t *testing.T, pass string) *AdminUser {
	t.Helper()
	hash, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &AdminUser{
		ID:           uuid.New(),
		Username:     "decorador",
		Email:        "admin@festivo.com",
		PasswordHash: hash,
		Role:         "admin",
		CreatedAt:    time.Now(),
	}
}

func TestLoginSuccess(t *testing.T) {
	user := seedAdmin(t, "correta123")
	repo := &fakeAdminRepo{user: user}
	jwtService := jwt.NewService("secret", time.Hour)
	svc := NewService(repo, jwtService)

	resp, err := svc.Login(context.Background(), &LoginRequest{Username: "decorador", Password: "correta123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("no token issued")
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("expires_in = %d, want 3600", resp.ExpiresIn)
	}
	if resp.User.Username != user.Username {
		t.Errorf("username = %q", resp.User.Username)
	}
	if repo.lastLoginFor != user.ID {
		t.Error("last login was not recorded")
	}

	claims, err := jwtService.Validate(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Role != "admin" || claims.UserID != user.ID {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginByEmail(t *testing.T) {
	user := seedAdmin(t, "correta123")
	repo := &fakeAdminRepo{user: user}
	svc := NewService(repo, jwt.NewService("secret", time.Hour))

	if _, err := svc.Login(context.Background(), &LoginRequest{Username: user.Email, Password: "correta123"}); err != nil {
		t.Fatalf("login by email: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &fakeAdminRepo{user: seedAdmin(t, "correta123")}
	svc := NewService(repo, jwt.NewService("secret", time.Hour))

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "decorador", Password: "errada"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewService(&fakeAdminRepo{}, jwt.NewService("secret", time.Hour))

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "ninguem", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSucceedsWhenLastLoginWriteFails(t *testing.T) {
	repo := &fakeAdminRepo{user: seedAdmin(t, "correta123"), lastLoginErr: errors.New("timeout")}
	svc := NewService(repo, jwt.NewService("secret", time.Hour))

	if _, err := svc.Login(context.Background(), &LoginRequest{Username: "decorador", Password: "correta123"}); err != nil {
		t.Fatalf("login must survive a last-login write failure: %v", err)
	}
}

func TestMe(t *testing.T) {
	user := seedAdmin(t, "x")
	svc := NewService(&fakeAdminRepo{user: user}, jwt.NewService("secret", time.Hour))

	resp, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if resp.Username != user.Username || resp.Role != "admin" {
		t.Errorf("resp = %+v", resp)
	}

	if _, err := svc.Me(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
