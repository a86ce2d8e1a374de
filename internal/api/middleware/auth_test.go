package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

type stubAuthenticator struct {
	claims   *ports.Claims
	verifyFn func(token string) error
	users    map[string]*domain.User
}

func (s *stubAuthenticator) VerifyToken(token string) (*ports.Claims, error) {
	if s.verifyFn != nil {
		if err := s.verifyFn(token); err != nil {
			return nil, err
		}
	}
	return s.claims, nil
}

func (s *stubAuthenticator) ResolveIdentity(_ context.Context, userID string) (*domain.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func (s *stubAuthenticator) RequireActive(u *domain.User) error {
	if !u.Active() {
		return domain.ErrAccountInactive
	}
	return nil
}

func newAuthStub() *stubAuthenticator {
	return &stubAuthenticator{
		// The token still says Sales Executive; the store is authoritative.
		claims: &ports.Claims{UserID: "u1", Role: domain.RoleSalesExecutive},
		users: map[string]*domain.User{
			"u1": {ID: "u1", Role: domain.RoleSalesManager, Status: domain.StatusActive, OrganizationID: "org-a"},
		},
	}
}

func runAuth(t *testing.T, stub *stubAuthenticator, header string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := Auth(stub)(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return c, called, err
}

func TestAuth_ValidTokenUsesStoredRole(t *testing.T) {
	c, called, err := runAuth(t, newAuthStub(), "Bearer good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
	id, ok := IdentityFrom(c)
	if !ok {
		t.Fatal("identity not set")
	}
	if id.Role != domain.RoleSalesManager || id.OrganizationID != "org-a" {
		t.Fatalf("expected identity from the store, got %+v", id)
	}
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		mutate  func(s *stubAuthenticator)
		wantErr error
	}{
		{"missing header", "", nil, domain.ErrUnauthenticated},
		{"wrong scheme", "Token abc", nil, domain.ErrUnauthenticated},
		{"empty token", "Bearer ", nil, domain.ErrUnauthenticated},
		{"expired", "Bearer old", func(s *stubAuthenticator) {
			s.verifyFn = func(string) error { return domain.ErrTokenExpired }
		}, domain.ErrTokenExpired},
		{"bad signature", "Bearer forged", func(s *stubAuthenticator) {
			s.verifyFn = func(string) error { return domain.ErrTokenInvalid }
		}, domain.ErrTokenInvalid},
		{"deleted user", "Bearer good", func(s *stubAuthenticator) {
			delete(s.users, "u1")
		}, domain.ErrUnauthenticated},
		{"inactive user", "Bearer good", func(s *stubAuthenticator) {
			s.users["u1"].Status = domain.StatusInactive
		}, domain.ErrAccountInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newAuthStub()
			if tt.mutate != nil {
				tt.mutate(stub)
			}
			c, called, err := runAuth(t, stub, tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if called {
				t.Fatal("next must not run")
			}
			if _, ok := IdentityFrom(c); ok {
				t.Fatal("identity must not be set")
			}
		})
	}
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	if _, called, err := runAuth(t, newAuthStub(), "bearer good"); err != nil || !called {
		t.Fatalf("expected success, got err=%v called=%v", err, called)
	}
}
