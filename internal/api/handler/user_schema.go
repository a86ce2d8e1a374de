package handler

import (
	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

type createUserRequest struct {
	Name     string            `json:"name" validate:"required,max=100"`
	Email    string            `json:"email" validate:"required,email"`
	Password string            `json:"password" validate:"required,min=6,max=72"`
	Phone    string            `json:"phone" validate:"max=50"`
	Company  string            `json:"company" validate:"max=200"`
	Role     domain.Role       `json:"role"`
	Status   domain.UserStatus `json:"status"`
}

func (r createUserRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
		Company:  r.Company,
		Role:     r.Role,
		Status:   r.Status,
	}
}

type updateUserRequest struct {
	Name     *string            `json:"name" validate:"omitnil,min=1,max=100"`
	Email    *string            `json:"email" validate:"omitnil,email"`
	Phone    *string            `json:"phone" validate:"omitnil,max=50"`
	Company  *string            `json:"company" validate:"omitnil,max=200"`
	Password *string            `json:"password" validate:"omitnil,min=6,max=72"`
	Role     *domain.Role       `json:"role"`
	Status   *domain.UserStatus `json:"status"`
}

func (r updateUserRequest) toPatch() domain.UserPatch {
	return domain.UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Company:  r.Company,
		Password: r.Password,
		Role:     r.Role,
		Status:   r.Status,
	}
}
