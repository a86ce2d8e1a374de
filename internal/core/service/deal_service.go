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

type DealService struct {
	recordBase
	repo    ports.DealRepository
	reports ports.ReportRepository
}

func NewDealService(repo ports.DealRepository, reports ports.ReportRepository, audit ports.AuditSink, idem ports.IdempotencyStore, log zerolog.Logger) *DealService {
	return &DealService{
		recordBase: newRecordBase(policy.KindDeals, audit, idem, log),
		repo:       repo,
		reports:    reports,
	}
}

func (s *DealService) List(ctx context.Context, caller domain.Identity, filter ports.DealFilter) (*ports.Page[*domain.Deal], error) {
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

	deals, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return ports.NewPage(deals, total, filter.Pagination), nil
}

func (s *DealService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Deal, error) {
	return s.load(ctx, caller, policy.ActionRead, id)
}

func (s *DealService) Create(ctx context.Context, caller domain.Identity, deal *domain.Deal, idempotencyKey string) (*ports.CreateResult[*domain.Deal], error) {
	defaultOwner(&deal.AssignedTo, caller)
	if _, err := s.authorize(caller, policy.ActionCreate, policy.Resource{Kind: s.kind, AssignedTo: deal.AssignedTo}); err != nil {
		return nil, err
	}

	if id := s.replayed(ctx, caller, idempotencyKey); id != "" {
		if existing, err := s.repo.FindByID(ctx, id, tenant(caller)); err == nil {
			s.replay(caller, idempotencyKey, id)
			return &ports.CreateResult[*domain.Deal]{Record: existing, Replayed: true}, nil
		}
	}

	if deal.Stage == "" {
		deal.Stage = domain.StageProspecting
	}
	if deal.Currency == "" {
		deal.Currency = domain.DefaultCurrency
	}
	if err := validateDeal(deal); err != nil {
		return nil, err
	}

	now := s.now()
	deal.ID = newID()
	deal.OrganizationID = caller.OrganizationID
	deal.CreatedAt = now
	deal.UpdatedAt = now

	if err := s.repo.Create(ctx, deal); err != nil {
		s.log.Error().Err(err).Msg("failed to create deal")
		return nil, fmt.Errorf("create deal: %w", err)
	}

	s.remember(ctx, caller, idempotencyKey, deal.ID)
	s.created(caller, deal.ID)
	return &ports.CreateResult[*domain.Deal]{Record: deal}, nil
}

func (s *DealService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.DealPatch) (*domain.Deal, error) {
	deal, err := s.load(ctx, caller, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(deal)
	if _, err := s.authorize(caller, policy.ActionUpdate, policy.Resource{Kind: s.kind, ID: id, AssignedTo: deal.AssignedTo}); err != nil {
		return nil, err
	}
	if err := validateDeal(deal); err != nil {
		return nil, err
	}

	deal.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("update deal: %w", err)
	}
	s.record(caller, "update", deal.ID)
	return deal, nil
}

func (s *DealService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if _, err := s.load(ctx, caller, policy.ActionDelete, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	s.record(caller, "delete", id)
	return nil
}

// PipelineSummary groups the deals visible to caller by stage.
func (s *DealService) PipelineSummary(ctx context.Context, caller domain.Identity) ([]domain.StageSummary, error) {
	d, err := s.authorize(caller, policy.ActionList, policy.Resource{Kind: s.kind})
	if err != nil {
		return nil, err
	}
	stages, err := s.reports.DealsByStage(ctx, ports.ReportScope{RecordScope: listScope(caller, d)})
	if err != nil {
		return nil, fmt.Errorf("pipeline summary: %w", err)
	}
	return stages, nil
}

func (s *DealService) load(ctx context.Context, caller domain.Identity, action policy.Action, id string) (*domain.Deal, error) {
	if err := s.precheck(caller, action, id); err != nil {
		return nil, err
	}
	deal, err := s.repo.FindByID(ctx, id, tenant(caller))
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(caller, action, policy.Resource{Kind: s.kind, ID: id, AssignedTo: deal.AssignedTo}); err != nil {
		return nil, err
	}
	return deal, nil
}

var dealStages = []domain.DealStage{
	domain.StageProspecting,
	domain.StageProposal,
	domain.StageNegotiation,
	domain.StageClosedWon,
	domain.StageClosedLost,
}

func validateDeal(d *domain.Deal) error {
	switch {
	case d.DealName == "":
		return validationError("dealName is required")
	case d.Value < 0:
		return validationError("value must not be negative")
	case d.ExpectedCloseDate.IsZero():
		return validationError("expectedCloseDate is required")
	case d.Probability < 0 || d.Probability > 100:
		return validationError("probability must be between 0 and 100")
	case !slices.Contains(dealStages, d.Stage):
		return validationError("stage %q is not valid", d.Stage)
	}
	return nil
}
