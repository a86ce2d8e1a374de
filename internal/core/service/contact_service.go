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

// ContactService manages contacts. Contacts are shared within a tenant, so
// only the tier table applies; there is no owner scope.
type ContactService struct {
	recordBase
	repo ports.ContactRepository
}

func NewContactService(repo ports.ContactRepository, audit ports.AuditSink, idem ports.IdempotencyStore, log zerolog.Logger) *ContactService {
	return &ContactService{
		recordBase: newRecordBase(policy.KindContacts, audit, idem, log),
		repo:       repo,
	}
}

func (s *ContactService) List(ctx context.Context, caller domain.Identity, filter ports.ContactFilter) (*ports.Page[*domain.Contact], error) {
	if _, err := s.authorize(caller, policy.ActionList, policy.Resource{Kind: s.kind}); err != nil {
		return nil, err
	}

	filter.OrganizationID = tenant(caller)
	filter.Pagination = filter.Pagination.Normalize()

	contacts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return ports.NewPage(contacts, total, filter.Pagination), nil
}

func (s *ContactService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Contact, error) {
	return s.load(ctx, caller, policy.ActionRead, id)
}

func (s *ContactService) Create(ctx context.Context, caller domain.Identity, contact *domain.Contact, idempotencyKey string) (*ports.CreateResult[*domain.Contact], error) {
	if _, err := s.authorize(caller, policy.ActionCreate, policy.Resource{Kind: s.kind}); err != nil {
		return nil, err
	}

	if id := s.replayed(ctx, caller, idempotencyKey); id != "" {
		if existing, err := s.repo.FindByID(ctx, id, tenant(caller)); err == nil {
			s.replay(caller, idempotencyKey, id)
			return &ports.CreateResult[*domain.Contact]{Record: existing, Replayed: true}, nil
		}
	}

	if contact.PreferredContactMethod == "" {
		contact.PreferredContactMethod = domain.DefaultContactMethod
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	now := s.now()
	contact.ID = newID()
	contact.OrganizationID = caller.OrganizationID
	contact.CreatedAt = now
	contact.UpdatedAt = now

	if err := s.repo.Create(ctx, contact); err != nil {
		s.log.Error().Err(err).Msg("failed to create contact")
		return nil, fmt.Errorf("create contact: %w", err)
	}

	s.remember(ctx, caller, idempotencyKey, contact.ID)
	s.created(caller, contact.ID)
	return &ports.CreateResult[*domain.Contact]{Record: contact}, nil
}

func (s *ContactService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.ContactPatch) (*domain.Contact, error) {
	contact, err := s.load(ctx, caller, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(contact)
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	contact.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	s.record(caller, "update", contact.ID)
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if _, err := s.load(ctx, caller, policy.ActionDelete, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	s.record(caller, "delete", id)
	return nil
}

func (s *ContactService) load(ctx context.Context, caller domain.Identity, action policy.Action, id string) (*domain.Contact, error) {
	if _, err := s.authorize(caller, action, policy.Resource{Kind: s.kind, ID: id}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, tenant(caller))
}

var contactMethods = []string{"Email", "Phone", "SMS", "Other"}

func validateContact(c *domain.Contact) error {
	switch {
	case c.FirstName == "":
		return validationError("firstName is required")
	case c.LastName == "":
		return validationError("lastName is required")
	case c.Email == "":
		return validationError("email is required")
	case !slices.Contains(contactMethods, c.PreferredContactMethod):
		return validationError("preferredContactMethod must be one of: %v", contactMethods)
	}
	return nil
}
