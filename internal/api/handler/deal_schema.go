package handler

import (
	"time"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

type createDealRequest struct {
	DealName          string           `json:"dealName" validate:"required,max=200"`
	Stage             domain.DealStage `json:"stage"`
	Value             float64          `json:"value" validate:"gte=0"`
	ExpectedCloseDate time.Time        `json:"expectedCloseDate" validate:"required"`
	ActualCloseDate   *time.Time       `json:"actualCloseDate"`
	ContactID         string           `json:"contact"`
	AccountID         string           `json:"account"`
	AssignedTo        string           `json:"assignedTo"`
	Description       string           `json:"description" validate:"max=2000"`
	Probability       *int             `json:"probability" validate:"omitnil,gte=0,lte=100"`
	Currency          string           `json:"currency" validate:"omitempty,len=3"`
}

// toDomain maps the request to a deal. An absent probability takes the
// default, an explicit zero is kept.
func (r createDealRequest) toDomain() *domain.Deal {
	probability := domain.DefaultDealProbability
	if r.Probability != nil {
		probability = *r.Probability
	}
	return &domain.Deal{
		DealName:          r.DealName,
		Stage:             r.Stage,
		Value:             r.Value,
		ExpectedCloseDate: r.ExpectedCloseDate,
		ActualCloseDate:   r.ActualCloseDate,
		ContactID:         r.ContactID,
		AccountID:         r.AccountID,
		AssignedTo:        r.AssignedTo,
		Description:       r.Description,
		Probability:       probability,
		Currency:          r.Currency,
	}
}

type updateDealRequest struct {
	DealName          *string           `json:"dealName" validate:"omitnil,min=1,max=200"`
	Stage             *domain.DealStage `json:"stage"`
	Value             *float64          `json:"value" validate:"omitnil,gte=0"`
	ExpectedCloseDate *time.Time        `json:"expectedCloseDate"`
	ActualCloseDate   *time.Time        `json:"actualCloseDate"`
	ContactID         *string           `json:"contact"`
	AccountID         *string           `json:"account"`
	AssignedTo        *string           `json:"assignedTo"`
	Description       *string           `json:"description" validate:"omitnil,max=2000"`
	Probability       *int              `json:"probability" validate:"omitnil,gte=0,lte=100"`
	Currency          *string           `json:"currency" validate:"omitnil,len=3"`
}

func (r updateDealRequest) toPatch() domain.DealPatch {
	return domain.DealPatch{
		DealName:          r.DealName,
		Stage:             r.Stage,
		Value:             r.Value,
		ExpectedCloseDate: r.ExpectedCloseDate,
		ActualCloseDate:   r.ActualCloseDate,
		ContactID:         r.ContactID,
		AccountID:         r.AccountID,
		AssignedTo:        r.AssignedTo,
		Description:       r.Description,
		Probability:       r.Probability,
		Currency:          r.Currency,
	}
}
