package ports

import (
	"context"
	"time"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

// Every record service method takes the caller's resolved identity and
// authorizes before touching storage.

// CreateResult wraps a created record. Replayed is true when an
// Idempotency-Key matched an earlier create.
type CreateResult[T any] struct {
	Record   T
	Replayed bool
}

type LeadService interface {
	List(ctx context.Context, caller domain.Identity, filter LeadFilter) (*Page[*domain.Lead], error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Lead, error)
	Create(ctx context.Context, caller domain.Identity, lead *domain.Lead, idempotencyKey string) (*CreateResult[*domain.Lead], error)
	Update(ctx context.Context, caller domain.Identity, id string, patch domain.LeadPatch) (*domain.Lead, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
	Convert(ctx context.Context, caller domain.Identity, id string, target domain.ConversionTarget) (*domain.Lead, error)
}

type DealService interface {
	List(ctx context.Context, caller domain.Identity, filter DealFilter) (*Page[*domain.Deal], error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Deal, error)
	Create(ctx context.Context, caller domain.Identity, deal *domain.Deal, idempotencyKey string) (*CreateResult[*domain.Deal], error)
	Update(ctx context.Context, caller domain.Identity, id string, patch domain.DealPatch) (*domain.Deal, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
	PipelineSummary(ctx context.Context, caller domain.Identity) ([]domain.StageSummary, error)
}

type ActivityService interface {
	List(ctx context.Context, caller domain.Identity, filter ActivityFilter) (*Page[*domain.Activity], error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Activity, error)
	Create(ctx context.Context, caller domain.Identity, activity *domain.Activity, idempotencyKey string) (*CreateResult[*domain.Activity], error)
	Update(ctx context.Context, caller domain.Identity, id string, patch domain.ActivityPatch) (*domain.Activity, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
	UpcomingReminders(ctx context.Context, caller domain.Identity) ([]*domain.Activity, error)
}

type AccountService interface {
	List(ctx context.Context, caller domain.Identity, filter AccountFilter) (*Page[*domain.Account], error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Account, error)
	Create(ctx context.Context, caller domain.Identity, account *domain.Account, idempotencyKey string) (*CreateResult[*domain.Account], error)
	Update(ctx context.Context, caller domain.Identity, id string, patch domain.AccountPatch) (*domain.Account, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}

type ContactService interface {
	List(ctx context.Context, caller domain.Identity, filter ContactFilter) (*Page[*domain.Contact], error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Contact, error)
	Create(ctx context.Context, caller domain.Identity, contact *domain.Contact, idempotencyKey string) (*CreateResult[*domain.Contact], error)
	Update(ctx context.Context, caller domain.Identity, id string, patch domain.ContactPatch) (*domain.Contact, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}

// CreateUserInput carries an administrative user creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Company  string
	Role     domain.Role       // empty = Sales Executive
	Status   domain.UserStatus // empty = Active
}

type UserService interface {
	List(ctx context.Context, caller domain.Identity, filter UserFilter) (*Page[*domain.User], error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.User, error)
	Create(ctx context.Context, caller domain.Identity, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, caller domain.Identity, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}

type DashboardService interface {
	Stats(ctx context.Context, caller domain.Identity) (*domain.DashboardStats, error)
	Pipeline(ctx context.Context, caller domain.Identity) ([]domain.StageSummary, error)
	LeadSources(ctx context.Context, caller domain.Identity) ([]domain.SourceCount, error)
}

// ReportInput carries the optional report parameters.
type ReportInput struct {
	From   time.Time
	To     time.Time
	UserID string
	Source string
}

type ReportService interface {
	SalesPerformance(ctx context.Context, caller domain.Identity, in ReportInput) ([]domain.SalesPerformance, error)
	LeadConversion(ctx context.Context, caller domain.Identity, in ReportInput) ([]domain.SourceConversion, error)
	DealPipeline(ctx context.Context, caller domain.Identity) (*domain.PipelineAnalysis, error)
	UserProductivity(ctx context.Context, caller domain.Identity, in ReportInput) ([]domain.Productivity, error)
}
