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

type LeadService struct {
	recordBase
	repo ports.LeadRepository
}

func NewLeadService(repo ports.LeadRepository, audit ports.AuditSink, idem ports.IdempotencyStore, log zerolog.Logger) *LeadService {
	return &LeadService{
		recordBase: newRecordBase(policy.KindLeads, audit, idem, log),
		repo:       repo,
	}
}

// List returns a page of leads visible to caller. A scoped decision overrides
// any assignedTo filter supplied by the caller.
func (s *LeadService) List(ctx context.Context, caller domain.Identity, filter ports.LeadFilter) (*ports.Page[*domain.Lead], error) {
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

	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return ports.NewPage(leads, total, filter.Pagination), nil
}

func (s *LeadService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Lead, error) {
	return s.load(ctx, caller, policy.ActionRead, id)
}

// Create stores a new lead. When idempotencyKey matches an earlier create by
// the same caller the stored lead is returned instead.
func (s *LeadService) Create(ctx context.Context, caller domain.Identity, lead *domain.Lead, idempotencyKey string) (*ports.CreateResult[*domain.Lead], error) {
	defaultOwner(&lead.AssignedTo, caller)
	if _, err := s.authorize(caller, policy.ActionCreate, policy.Resource{Kind: s.kind, AssignedTo: lead.AssignedTo}); err != nil {
		return nil, err
	}

	if id := s.replayed(ctx, caller, idempotencyKey); id != "" {
		if existing, err := s.repo.FindByID(ctx, id, tenant(caller)); err == nil {
			s.replay(caller, idempotencyKey, id)
			return &ports.CreateResult[*domain.Lead]{Record: existing, Replayed: true}, nil
		}
	}

	if lead.Source == "" {
		lead.Source = domain.DefaultLeadSource
	}
	if lead.Status == "" {
		lead.Status = domain.LeadNew
	}
	if err := validateLead(lead); err != nil {
		return nil, err
	}

	now := s.now()
	lead.ID = newID()
	lead.OrganizationID = caller.OrganizationID
	lead.ConvertedToContact = false
	lead.ConvertedToDeal = false
	lead.ConvertedDate = nil
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if err := s.repo.Create(ctx, lead); err != nil {
		s.log.Error().Err(err).Msg("failed to create lead")
		return nil, fmt.Errorf("create lead: %w", err)
	}

	s.remember(ctx, caller, idempotencyKey, lead.ID)
	s.created(caller, lead.ID)
	return &ports.CreateResult[*domain.Lead]{Record: lead}, nil
}

// Update applies patch. Both the current and the resulting owner must pass
// the policy, so a scoped caller cannot hand a lead to someone else.
func (s *LeadService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	lead, err := s.load(ctx, caller, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(lead)
	if _, err := s.authorize(caller, policy.ActionUpdate, policy.Resource{Kind: s.kind, ID: id, AssignedTo: lead.AssignedTo}); err != nil {
		return nil, err
	}
	if err := validateLead(lead); err != nil {
		return nil, err
	}

	lead.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	s.record(caller, "update", lead.ID)
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if _, err := s.load(ctx, caller, policy.ActionDelete, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	s.record(caller, "delete", id)
	return nil
}

// Convert marks the lead as converted into a contact or a deal.
func (s *LeadService) Convert(ctx context.Context, caller domain.Identity, id string, target domain.ConversionTarget) (*domain.Lead, error) {
	if target != domain.ConvertToContact && target != domain.ConvertToDeal {
		return nil, validationError("convertTo must be one of: contact deal")
	}

	lead, err := s.load(ctx, caller, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lead.Convert(target, now)
	lead.UpdatedAt = now
	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("convert lead: %w", err)
	}

	s.log.Info().Str("user_id", caller.UserID).Str("record_id", id).Str("target", string(target)).Msg("lead converted")
	s.record(caller, "convert", id)
	return lead, nil
}

func (s *LeadService) load(ctx context.Context, caller domain.Identity, action policy.Action, id string) (*domain.Lead, error) {
	if err := s.precheck(caller, action, id); err != nil {
		return nil, err
	}
	lead, err := s.repo.FindByID(ctx, id, tenant(caller))
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(caller, action, policy.Resource{Kind: s.kind, ID: id, AssignedTo: lead.AssignedTo}); err != nil {
		return nil, err
	}
	return lead, nil
}

var leadStatuses = []domain.LeadStatus{domain.LeadNew, domain.LeadContacted, domain.LeadQualified, domain.LeadLost}

func validateLead(l *domain.Lead) error {
	switch {
	case l.Name == "":
		return validationError("name is required")
	case l.Email == "":
		return validationError("email is required")
	case !slices.Contains(domain.LeadSources, l.Source):
		return validationError("source must be one of: %v", domain.LeadSources)
	case !slices.Contains(leadStatuses, l.Status):
		return validationError("status %q is not valid", l.Status)
	}
	return nil
}
