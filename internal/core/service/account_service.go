package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/policy"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

type AccountService struct {
	recordBase
	repo ports.AccountRepository
}

func NewAccountService(repo ports.AccountRepository, audit ports.AuditSink, idem ports.IdempotencyStore, log zerolog.Logger) *AccountService {
	return &AccountService{
		recordBase: newRecordBase(policy.KindAccounts, audit, idem, log),
		repo:       repo,
	}
}

func (s *AccountService) List(ctx context.Context, caller domain.Identity, filter ports.AccountFilter) (*ports.Page[*domain.Account], error) {
	d, err := s.authorize(caller, policy.ActionList, policy.Resource{Kind: s.kind})
	if err != nil {
		return nil, err
	}

	scope := listScope(caller, d)
	filter.OrganizationID = scope.OrganizationID
	if scope.AssignedTo != "" {
		filter.AssignedTo = scope.AssignedTo
	}
	filter.Pagination = filter.Pagination.Normalize()

	accounts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return ports.NewPage(accounts, total, filter.Pagination), nil
}

func (s *AccountService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Account, error) {
	return s.load(ctx, caller, policy.ActionRead, id)
}

func (s *AccountService) Create(ctx context.Context, caller domain.Identity, account *domain.Account, idempotencyKey string) (*ports.CreateResult[*domain.Account], error) {
	defaultOwner(&account.AssignedTo, caller)
	if _, err := s.authorize(caller, policy.ActionCreate, policy.Resource{Kind: s.kind, AssignedTo: account.AssignedTo}); err != nil {
		return nil, err
	}

	if id := s.replayed(ctx, caller, idempotencyKey); id != "" {
		if existing, err := s.repo.FindByID(ctx, id, tenant(caller)); err == nil {
			s.replay(caller, idempotencyKey, id)
			return &ports.CreateResult[*domain.Account]{Record: existing, Replayed: true}, nil
		}
	}

	if account.Type == "" {
		account.Type = domain.DefaultAccountType
	}
	if account.Status == "" {
		account.Status = domain.DefaultAccountStatus
	}
	if err := validateAccount(account); err != nil {
		return nil, err
	}

	now := s.now()
	account.ID = newID()
	account.OrganizationID = caller.OrganizationID
	account.CreatedAt = now
	account.UpdatedAt = now

	if err := s.repo.Create(ctx, account); err != nil {
		s.log.Error().Err(err).Msg("failed to create account")
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.remember(ctx, caller, idempotencyKey, account.ID)
	s.created(caller, account.ID)
	return &ports.CreateResult[*domain.Account]{Record: account}, nil
}

func (s *AccountService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.AccountPatch) (*domain.Account, error) {
	account, err := s.load(ctx, caller, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(account)
	if _, err := s.authorize(caller, policy.ActionUpdate, policy.Resource{Kind: s.kind, ID: id, AssignedTo: account.AssignedTo}); err != nil {
		return nil, err
	}
	if err := validateAccount(account); err != nil {
		return nil, err
	}

	account.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	s.record(caller, "update", account.ID)
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if _, err := s.load(ctx, caller, policy.ActionDelete, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.record(caller, "delete", id)
	return nil
}

func (s *AccountService) load(ctx context.Context, caller domain.Identity, action policy.Action, id string) (*domain.Account, error) {
	if err := s.precheck(caller, action, id); err != nil {
		return nil, err
	}
	account, err := s.repo.FindByID(ctx, id, tenant(caller))
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(caller, action, policy.Resource{Kind: s.kind, ID: id, AssignedTo: account.AssignedTo}); err != nil {
		return nil, err
	}
	return account, nil
}

var (
	accountTypes    = []string{"Customer", "Partner", "Competitor", "Reseller", "Other"}
	accountStatuses = []string{"Active", "Inactive", "Suspended"}
)

func validateAccount(a *domain.Account) error {
	switch {
	case a.Name == "":
		return validationError("name is required")
	case !slices.Contains(accountTypes, a.Type):
		return validationError("type must be one of: %v", accountTypes)
	case !slices.Contains(accountStatuses, a.Status):
		return validationError("status must be one of: %v", accountStatuses)
	case a.AnnualRevenue < 0:
		return validationError("annualRevenue must not be negative")
	case a.NumberOfEmployees < 0:
		return validationError("numberOfEmployees must not be negative")
	}
	return nil
}
