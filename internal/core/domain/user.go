package domain

import (
	"strings"
	"time"
)

// UserStatus is the activation state of an account.
type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User models an authenticated actor in the CRM.
type User struct {
	ID             string     `json:"id" bson:"_id"`
	Name           string     `json:"name" bson:"name"`
	Email          string     `json:"email" bson:"email"`
	Phone          string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Company        string     `json:"company,omitempty" bson:"company,omitempty"`
	PasswordHash   string     `json:"-" bson:"password_hash"`
	Role           Role       `json:"role" bson:"role"`
	Status         UserStatus `json:"status" bson:"status"`
	OrganizationID string     `json:"organization,omitempty" bson:"organization_id,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updated_at"`
}

// Active reports whether the account may act.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// Identity returns the request-scoped view of u.
func (u *User) Identity() Identity {
	return Identity{
		UserID:         u.ID,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
	}
}

// NormalizeEmail lower-cases and trims an address so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
