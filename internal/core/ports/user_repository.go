package ports

import (
	"context"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

// UserFilter carries the query parameters for listing users.
// OrganizationID is enforced by the service layer for tenant isolation.
type UserFilter struct {
	OrganizationID string
	Role           domain.Role
	Status         domain.UserStatus
	Search         string // partial match on name or email
	Pagination
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts u. A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail looks up a normalized email address.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	// ListByRoles returns every user holding one of roles, for reports.
	ListByRoles(ctx context.Context, organizationID string, roles []domain.Role) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
