package handler

import "github.com/salesdesk/crm-api/internal/core/domain"

type createLeadRequest struct {
	Name       string            `json:"name" validate:"required,max=200"`
	Company    string            `json:"company" validate:"max=200"`
	Email      string            `json:"email" validate:"required,email"`
	Phone      string            `json:"phone" validate:"max=50"`
	Source     string            `json:"source"`
	Status     domain.LeadStatus `json:"status"`
	AssignedTo string            `json:"assignedTo"`
	Campaign   string            `json:"campaign"`
	Notes      string            `json:"notes" validate:"max=2000"`
}

func (r createLeadRequest) toDomain() *domain.Lead {
	return &domain.Lead{
		Name:       r.Name,
		Company:    r.Company,
		Email:      r.Email,
		Phone:      r.Phone,
		Source:     r.Source,
		Status:     r.Status,
		AssignedTo: r.AssignedTo,
		Campaign:   r.Campaign,
		Notes:      r.Notes,
	}
}

type updateLeadRequest struct {
	Name       *string            `json:"name" validate:"omitnil,min=1,max=200"`
	Company    *string            `json:"company" validate:"omitnil,max=200"`
	Email      *string            `json:"email" validate:"omitnil,email"`
	Phone      *string            `json:"phone" validate:"omitnil,max=50"`
	Source     *string            `json:"source"`
	Status     *domain.LeadStatus `json:"status"`
	AssignedTo *string            `json:"assignedTo"`
	Campaign   *string            `json:"campaign"`
	Notes      *string            `json:"notes" validate:"omitnil,max=2000"`
}

func (r updateLeadRequest) toPatch() domain.LeadPatch {
	return domain.LeadPatch{
		Name:       r.Name,
		Company:    r.Company,
		Email:      r.Email,
		Phone:      r.Phone,
		Source:     r.Source,
		Status:     r.Status,
		AssignedTo: r.AssignedTo,
		Campaign:   r.Campaign,
		Notes:      r.Notes,
	}
}

type convertLeadRequest struct {
	ConvertTo domain.ConversionTarget `json:"convertTo" validate:"required,oneof=contact deal"`
}
