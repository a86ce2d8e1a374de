package handler

import "github.com/salesdesk/crm-api/internal/core/domain"

type createAccountRequest struct {
	Name              string               `json:"name" validate:"required,max=200"`
	Industry          string               `json:"industry"`
	Type              string               `json:"type"`
	Email             string               `json:"email" validate:"omitempty,email"`
	Phone             string               `json:"phone" validate:"max=50"`
	Website           string               `json:"website" validate:"omitempty,url"`
	Address           domain.PostalAddress `json:"address"`
	AnnualRevenue     float64              `json:"annualRevenue" validate:"gte=0"`
	NumberOfEmployees int                  `json:"numberOfEmployees" validate:"gte=0"`
	AssignedTo        string               `json:"assignedTo"`
	Status            string               `json:"status"`
	Description       string               `json:"description" validate:"max=2000"`
}

func (r createAccountRequest) toDomain() *domain.Account {
	return &domain.Account{
		Name:              r.Name,
		Industry:          r.Industry,
		Type:              r.Type,
		Email:             r.Email,
		Phone:             r.Phone,
		Website:           r.Website,
		Address:           r.Address,
		AnnualRevenue:     r.AnnualRevenue,
		NumberOfEmployees: r.NumberOfEmployees,
		AssignedTo:        r.AssignedTo,
		Status:            r.Status,
		Description:       r.Description,
	}
}

type updateAccountRequest struct {
	Name              *string               `json:"name" validate:"omitnil,min=1,max=200"`
	Industry          *string               `json:"industry"`
	Type              *string               `json:"type"`
	Email             *string               `json:"email" validate:"omitnil,email"`
	Phone             *string               `json:"phone" validate:"omitnil,max=50"`
	Website           *string               `json:"website" validate:"omitnil,url"`
	Address           *domain.PostalAddress `json:"address"`
	AnnualRevenue     *float64              `json:"annualRevenue" validate:"omitnil,gte=0"`
	NumberOfEmployees *int                  `json:"numberOfEmployees" validate:"omitnil,gte=0"`
	AssignedTo        *string               `json:"assignedTo"`
	Status            *string               `json:"status"`
	Description       *string               `json:"description" validate:"omitnil,max=2000"`
}

func (r updateAccountRequest) toPatch() domain.AccountPatch {
	return domain.AccountPatch{
		Name:              r.Name,
		Industry:          r.Industry,
		Type:              r.Type,
		Email:             r.Email,
		Phone:             r.Phone,
		Website:           r.Website,
		Address:           r.Address,
		AnnualRevenue:     r.AnnualRevenue,
		NumberOfEmployees: r.NumberOfEmployees,
		AssignedTo:        r.AssignedTo,
		Status:            r.Status,
		Description:       r.Description,
	}
}
