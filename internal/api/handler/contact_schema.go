package handler

import "github.com/salesdesk/crm-api/internal/core/domain"

type createContactRequest struct {
	FirstName              string               `json:"firstName" validate:"required,max=100"`
	LastName               string               `json:"lastName" validate:"required,max=100"`
	Email                  string               `json:"email" validate:"required,email"`
	Phone                  string               `json:"phone" validate:"max=50"`
	AccountID              string               `json:"account"`
	JobTitle               string               `json:"jobTitle"`
	Department             string               `json:"department"`
	Address                domain.PostalAddress `json:"address"`
	PreferredContactMethod string               `json:"preferredContactMethod"`
	Notes                  string               `json:"notes" validate:"max=2000"`
}

func (r createContactRequest) toDomain() *domain.Contact {
	return &domain.Contact{
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Email:                  r.Email,
		Phone:                  r.Phone,
		AccountID:              r.AccountID,
		JobTitle:               r.JobTitle,
		Department:             r.Department,
		Address:                r.Address,
		PreferredContactMethod: r.PreferredContactMethod,
		Notes:                  r.Notes,
	}
}

type updateContactRequest struct {
	FirstName              *string               `json:"firstName" validate:"omitnil,min=1,max=100"`
	LastName               *string               `json:"lastName" validate:"omitnil,min=1,max=100"`
	Email                  *string               `json:"email" validate:"omitnil,email"`
	Phone                  *string               `json:"phone" validate:"omitnil,max=50"`
	AccountID              *string               `json:"account"`
	JobTitle               *string               `json:"jobTitle"`
	Department             *string               `json:"department"`
	Address                *domain.PostalAddress `json:"address"`
	PreferredContactMethod *string               `json:"preferredContactMethod"`
	Notes                  *string               `json:"notes" validate:"omitnil,max=2000"`
}

func (r updateContactRequest) toPatch() domain.ContactPatch {
	return domain.ContactPatch{
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Email:                  r.Email,
		Phone:                  r.Phone,
		AccountID:              r.AccountID,
		JobTitle:               r.JobTitle,
		Department:             r.Department,
		Address:                r.Address,
		PreferredContactMethod: r.PreferredContactMethod,
		Notes:                  r.Notes,
	}
}
