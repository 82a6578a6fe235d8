package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/festivo/festivo-api/internal/pkg/jwt"
)

func identityEcho(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seenRole string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenRole = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &seenRole
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Hour)
	next, _ := identityEcho(t)
	handler := Auth(jwtService)(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Hour)
	next, _ := identityEcho(t)
	handler := Auth(jwtService)(next)

	for _, header := range []string{"token", "Basic abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rr.Code)
		}
	}
}

func TestAuthPopulatesIdentity(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Hour)
	token, err := jwtService.Generate(uuid.New(), "decorador", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	next, seenRole := identityEcho(t)
	handler := Auth(jwtService)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if *seenRole != "admin" {
		t.Errorf("role = %q, want admin", *seenRole)
	}
}

func TestOptionalAuthPassesAnonymousThrough(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Hour)
	next, seenRole := identityEcho(t)
	handler := OptionalAuth(jwtService)(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("anonymous request blocked: %d", rr.Code)
	}
	if *seenRole != "" {
		t.Errorf("role = %q, want empty", *seenRole)
	}
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Hour)
	next, seenRole := identityEcho(t)
	handler := OptionalAuth(jwtService)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// a bad token on a public route degrades to anonymous, not 401
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if *seenRole != "" {
		t.Errorf("role = %q, want empty", *seenRole)
	}
}

func TestOptionalAuthPopulatesValidIdentity(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Hour)
	token, _ := jwtService.Generate(uuid.New(), "decorador", "admin")

	next, seenRole := identityEcho(t)
	handler := OptionalAuth(jwtService)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if *seenRole != "admin" {
		t.Errorf("role = %q, want admin", *seenRole)
	}
}

func TestRequireAdmin(t *testing.T) {
	next, _ := identityEcho(t)
	handler := RequireAdmin()(next)

	// no identity at all
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
}
