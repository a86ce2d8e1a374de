package domain

import "time"

const DefaultContactMethod = "Email"

// Contact is a person at an account. Contacts are shared, not owned.
type Contact struct {
	ID                     string        `json:"id" bson:"_id"`
	FirstName              string        `json:"firstName" bson:"first_name"`
	LastName               string        `json:"lastName" bson:"last_name"`
	Email                  string        `json:"email" bson:"email"`
	Phone                  string        `json:"phone,omitempty" bson:"phone,omitempty"`
	AccountID              string        `json:"account,omitempty" bson:"account_id,omitempty"`
	JobTitle               string        `json:"jobTitle,omitempty" bson:"job_title,omitempty"`
	Department             string        `json:"department,omitempty" bson:"department,omitempty"`
	Address                PostalAddress `json:"address" bson:"address"`
	PreferredContactMethod string        `json:"preferredContactMethod" bson:"preferred_contact_method"`
	Notes                  string        `json:"notes,omitempty" bson:"notes,omitempty"`
	OrganizationID         string        `json:"organization,omitempty" bson:"organization_id,omitempty"`
	CreatedAt              time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt              time.Time     `json:"updatedAt" bson:"updated_at"`
}
