package ports

import (
	"context"
	"time"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

// RecordScope is the part of every record query the service layer enforces:
// the tenant and, for scoped callers, the owner.
type RecordScope struct {
	OrganizationID string // empty = all organizations
	AssignedTo     string // empty = all owners
}

// LeadFilter carries the list parameters for leads.
type LeadFilter struct {
	RecordScope
	Status string
	Source string
	Search string // partial match on name, company or email
	Pagination
}

// LeadRepository persists leads.
type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) error
	// FindByID retrieves a lead. When organizationID is non-empty the lookup is
	// restricted to that tenant.
	FindByID(ctx context.Context, id, organizationID string) (*domain.Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*domain.Lead, int64, error)
	Update(ctx context.Context, l *domain.Lead) error
	Delete(ctx context.Context, id string) error
}

// DealFilter carries the list parameters for deals.
type DealFilter struct {
	RecordScope
	Stage  string
	Search string // partial match on deal name or description
	Pagination
}

// DealRepository persists deals.
type DealRepository interface {
	Create(ctx context.Context, d *domain.Deal) error
	FindByID(ctx context.Context, id, organizationID string) (*domain.Deal, error)
	List(ctx context.Context, filter DealFilter) ([]*domain.Deal, int64, error)
	Update(ctx context.Context, d *domain.Deal) error
	Delete(ctx context.Context, id string) error
}

// ActivityFilter carries the list parameters for activities.
type ActivityFilter struct {
	RecordScope
	Type      string
	Status    string
	RelatedTo string
	Priority  string
	DueDate   time.Time // zero = any; otherwise matches the whole UTC day
	Pagination
}

// ActivityRepository persists activities.
type ActivityRepository interface {
	Create(ctx context.Context, a *domain.Activity) error
	FindByID(ctx context.Context, id, organizationID string) (*domain.Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]*domain.Activity, int64, error)
	// DueReminders returns open activities whose enabled reminder is at or
	// before now, earliest first.
	DueReminders(ctx context.Context, scope RecordScope, now time.Time) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

// AccountFilter carries the list parameters for accounts.
type AccountFilter struct {
	RecordScope
	Type     string
	Status   string
	Industry string
	Search   string // partial match on name
	Pagination
}

// AccountRepository persists accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	FindByID(ctx context.Context, id, organizationID string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, int64, error)
	Update(ctx context.Context, a *domain.Account) error
	Delete(ctx context.Context, id string) error
}

// ContactFilter carries the list parameters for contacts. Contacts have no
// owner, so only the tenant part of the scope applies.
type ContactFilter struct {
	OrganizationID string
	AccountID      string
	Search         string // partial match on first name, last name or email
	Pagination
}

// ContactRepository persists contacts.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) error
	FindByID(ctx context.Context, id, organizationID string) (*domain.Contact, error)
	List(ctx context.Context, filter ContactFilter) ([]*domain.Contact, int64, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, id string) error
}
