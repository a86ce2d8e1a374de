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

type ActivityService struct {
	recordBase
	repo ports.ActivityRepository
}

func NewActivityService(repo ports.ActivityRepository, audit ports.AuditSink, idem ports.IdempotencyStore, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		recordBase: newRecordBase(policy.KindActivities, audit, idem, log),
		repo:       repo,
	}
}

func (s *ActivityService) List(ctx context.Context, caller domain.Identity, filter ports.ActivityFilter) (*ports.Page[*domain.Activity], error) {
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

	activities, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return ports.NewPage(activities, total, filter.Pagination), nil
}

func (s *ActivityService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Activity, error) {
	return s.load(ctx, caller, policy.ActionRead, id)
}

func (s *ActivityService) Create(ctx context.Context, caller domain.Identity, activity *domain.Activity, idempotencyKey string) (*ports.CreateResult[*domain.Activity], error) {
	defaultOwner(&activity.AssignedTo, caller)
	if _, err := s.authorize(caller, policy.ActionCreate, policy.Resource{Kind: s.kind, AssignedTo: activity.AssignedTo}); err != nil {
		return nil, err
	}

	if id := s.replayed(ctx, caller, idempotencyKey); id != "" {
		if existing, err := s.repo.FindByID(ctx, id, tenant(caller)); err == nil {
			s.replay(caller, idempotencyKey, id)
			return &ports.CreateResult[*domain.Activity]{Record: existing, Replayed: true}, nil
		}
	}

	if activity.Status == "" {
		activity.Status = domain.ActivityPending
	}
	if activity.Priority == "" {
		activity.Priority = domain.DefaultActivityPriority
	}
	if activity.RelatedTo == "" {
		activity.RelatedTo = domain.DefaultActivityRelatedTo
	}
	if err := validateActivity(activity); err != nil {
		return nil, err
	}

	now := s.now()
	activity.ID = newID()
	activity.OrganizationID = caller.OrganizationID
	activity.CreatedAt = now
	activity.UpdatedAt = now

	if err := s.repo.Create(ctx, activity); err != nil {
		s.log.Error().Err(err).Msg("failed to create activity")
		return nil, fmt.Errorf("create activity: %w", err)
	}

	s.remember(ctx, caller, idempotencyKey, activity.ID)
	s.created(caller, activity.ID)
	return &ports.CreateResult[*domain.Activity]{Record: activity}, nil
}

func (s *ActivityService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.ActivityPatch) (*domain.Activity, error) {
	activity, err := s.load(ctx, caller, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(activity)
	if _, err := s.authorize(caller, policy.ActionUpdate, policy.Resource{Kind: s.kind, ID: id, AssignedTo: activity.AssignedTo}); err != nil {
		return nil, err
	}
	if err := validateActivity(activity); err != nil {
		return nil, err
	}

	activity.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	s.record(caller, "update", activity.ID)
	return activity, nil
}

func (s *ActivityService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if _, err := s.load(ctx, caller, policy.ActionDelete, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	s.record(caller, "delete", id)
	return nil
}

// UpcomingReminders lists open activities whose reminder is due.
func (s *ActivityService) UpcomingReminders(ctx context.Context, caller domain.Identity) ([]*domain.Activity, error) {
	d, err := s.authorize(caller, policy.ActionList, policy.Resource{Kind: s.kind})
	if err != nil {
		return nil, err
	}
	activities, err := s.repo.DueReminders(ctx, listScope(caller, d), s.now())
	if err != nil {
		return nil, fmt.Errorf("upcoming reminders: %w", err)
	}
	if activities == nil {
		activities = []*domain.Activity{}
	}
	return activities, nil
}

func (s *ActivityService) load(ctx context.Context, caller domain.Identity, action policy.Action, id string) (*domain.Activity, error) {
	if err := s.precheck(caller, action, id); err != nil {
		return nil, err
	}
	activity, err := s.repo.FindByID(ctx, id, tenant(caller))
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(caller, action, policy.Resource{Kind: s.kind, ID: id, AssignedTo: activity.AssignedTo}); err != nil {
		return nil, err
	}
	return activity, nil
}

var (
	activityTypes      = []string{"Call", "Meeting", "Email", "Task", "Follow-up", "Note"}
	activityPriorities = []string{"Low", "Medium", "High", "Urgent"}
	activityRelations  = []string{"Lead", "Deal", "Contact", "Account", "None"}
	activityStatuses   = []domain.ActivityStatus{
		domain.ActivityPending,
		domain.ActivityInProgress,
		domain.ActivityCompleted,
		domain.ActivityCancelled,
	}
)

func validateActivity(a *domain.Activity) error {
	switch {
	case a.Title == "":
		return validationError("title is required")
	case a.DueDate.IsZero():
		return validationError("dueDate is required")
	case !slices.Contains(activityTypes, a.Type):
		return validationError("type must be one of: %v", activityTypes)
	case !slices.Contains(activityPriorities, a.Priority):
		return validationError("priority must be one of: %v", activityPriorities)
	case !slices.Contains(activityRelations, a.RelatedTo):
		return validationError("relatedTo must be one of: %v", activityRelations)
	case !slices.Contains(activityStatuses, a.Status):
		return validationError("status %q is not valid", a.Status)
	}
	return nil
}
