package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
	"github.com/salesdesk/crm-api/internal/pkg/metrics"
)

const (
	defaultTokenTTL   = 7 * 24 * time.Hour
	minPasswordLength = 6
)

// AuthService issues and verifies session tokens and implements the public
// register/login flow on top of the credential store.
type AuthService struct {
	users     ports.UserRepository
	throttle  ports.LoginThrottle
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(users ports.UserRepository, throttle ports.LoginThrottle, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:     users,
		throttle:  throttle,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type tokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for userID carrying role.
func (s *AuthService) IssueToken(userID string, role domain.Role) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm and expiry. It returns
// domain.ErrTokenExpired for an expired token and domain.ErrTokenInvalid for
// anything else that fails.
func (s *AuthService) VerifyToken(token string) (*ports.Claims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &ports.Claims{UserID: claims.Subject, Role: claims.Role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// ResolveIdentity reads the user fresh from the store. Role and status
// changes therefore apply on the very next request.
func (s *AuthService) ResolveIdentity(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return u, nil
}

func (s *AuthService) RequireActive(u *domain.User) error {
	if !u.Active() {
		return domain.ErrAccountInactive
	}
	return nil
}

// Register creates a Customer account. Public registration never grants a
// staff role; asking for one is refused.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if in.Role != "" && in.Role != domain.RoleCustomer {
		if !in.Role.Valid() {
			return nil, validationError("role %q is not valid", in.Role)
		}
		s.log.Warn().Str("email", domain.NormalizeEmail(in.Email)).Str("role", string(in.Role)).Msg("registration with staff role refused")
		return nil, fmt.Errorf("%w: public registration is limited to customer accounts", domain.ErrForbidden)
	}

	u, err := buildUser(ctx, s.users, s.now(), in.Name, in.Email, in.Password, in.Phone, in.Company, domain.RoleCustomer, domain.StatusActive, "")
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.IssueToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}

	metrics.RecordsCreatedTotal.WithLabelValues("users").Inc()
	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user registered")
	return &ports.AuthResult{Token: token, User: u}, nil
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if blocked {
			metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.failLogin(ctx, email)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, s.failLogin(ctx, email)
	}

	if err := s.RequireActive(u); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	token, err := s.IssueToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user logged in")
	return &ports.AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) failLogin(ctx context.Context, email string) error {
	metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	if s.throttle != nil {
		if _, err := s.throttle.Fail(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login failure")
		}
	}
	return domain.ErrInvalidCredentials
}

// Me returns the caller's current profile.
func (s *AuthService) Me(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return s.ResolveIdentity(ctx, identity.UserID)
}

// BootstrapAdmin creates the first System Admin when none exists. It reports
// whether an account was created.
func (s *AuthService) BootstrapAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}
	n, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if name == "" {
		name = "System Admin"
	}

	u, err := buildUser(ctx, s.users, s.now(), name, email, password, "", "", domain.RoleAdmin, domain.StatusActive, "")
	if err != nil {
		return false, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("bootstrap admin created")
	return true, nil
}

// buildUser validates the input, checks email uniqueness and hashes the password.
func buildUser(ctx context.Context, users ports.UserRepository, now time.Time, name, email, password, phone, company string, role domain.Role, status domain.UserStatus, organizationID string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	switch {
	case name == "":
		return nil, validationError("name is required")
	case email == "":
		return nil, validationError("email is required")
	case len(password) < minPasswordLength:
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	case !role.Valid():
		return nil, validationError("role %q is not valid", role)
	case !status.Valid():
		return nil, validationError("status %q is not valid", status)
	}

	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &domain.User{
		ID:             newID(),
		Name:           name,
		Email:          email,
		Phone:          phone,
		Company:        company,
		PasswordHash:   string(hash),
		Role:           role,
		Status:         status,
		OrganizationID: organizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
