package handler

import (
	"time"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

type createActivityRequest struct {
	Type          string                `json:"type" validate:"required"`
	Title         string                `json:"title" validate:"required,max=200"`
	Description   string                `json:"description" validate:"max=2000"`
	DueDate       time.Time             `json:"dueDate" validate:"required"`
	CompletedDate *time.Time            `json:"completedDate"`
	Status        domain.ActivityStatus `json:"status"`
	AssignedTo    string                `json:"assignedTo"`
	RelatedTo     string                `json:"relatedTo"`
	RelatedID     string                `json:"relatedId"`
	Priority      string                `json:"priority"`
	Reminder      domain.Reminder       `json:"reminder"`
}

func (r createActivityRequest) toDomain() *domain.Activity {
	return &domain.Activity{
		Type:          r.Type,
		Title:         r.Title,
		Description:   r.Description,
		DueDate:       r.DueDate,
		CompletedDate: r.CompletedDate,
		Status:        r.Status,
		AssignedTo:    r.AssignedTo,
		RelatedTo:     r.RelatedTo,
		RelatedID:     r.RelatedID,
		Priority:      r.Priority,
		Reminder:      r.Reminder,
	}
}

type updateActivityRequest struct {
	Type          *string                `json:"type"`
	Title         *string                `json:"title" validate:"omitnil,min=1,max=200"`
	Description   *string                `json:"description" validate:"omitnil,max=2000"`
	DueDate       *time.Time             `json:"dueDate"`
	CompletedDate *time.Time             `json:"completedDate"`
	Status        *domain.ActivityStatus `json:"status"`
	AssignedTo    *string                `json:"assignedTo"`
	RelatedTo     *string                `json:"relatedTo"`
	RelatedID     *string                `json:"relatedId"`
	Priority      *string                `json:"priority"`
	Reminder      *domain.Reminder       `json:"reminder"`
}

func (r updateActivityRequest) toPatch() domain.ActivityPatch {
	return domain.ActivityPatch{
		Type:          r.Type,
		Title:         r.Title,
		Description:   r.Description,
		DueDate:       r.DueDate,
		CompletedDate: r.CompletedDate,
		Status:        r.Status,
		AssignedTo:    r.AssignedTo,
		RelatedTo:     r.RelatedTo,
		RelatedID:     r.RelatedID,
		Priority:      r.Priority,
		Reminder:      r.Reminder,
	}
}
