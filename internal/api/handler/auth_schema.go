package handler

import "github.com/salesdesk/crm-api/internal/core/domain"

type registerRequest struct {
	Name     string      `json:"name" validate:"required,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Phone    string      `json:"phone" validate:"max=50"`
	Company  string      `json:"company" validate:"max=200"`
	Role     domain.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}
