package ports

import (
	"context"
	"time"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

// RegisterInput carries a self-registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Company  string
	Role     domain.Role // optional; only Customer is accepted
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// Claims is the verified content of a session token.
type Claims struct {
	UserID    string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthService covers the public authentication endpoints.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, identity domain.Identity) (*domain.User, error)
}

// Authenticator is what the auth middleware needs to turn a bearer token
// into a request identity.
type Authenticator interface {
	VerifyToken(token string) (*Claims, error)
	ResolveIdentity(ctx context.Context, userID string) (*domain.User, error)
	RequireActive(u *domain.User) error
}
