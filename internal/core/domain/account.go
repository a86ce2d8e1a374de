package domain

import "time"

// PostalAddress is a street address shared by accounts and contacts.
type PostalAddress struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zip_code,omitempty"`
}

const (
	DefaultAccountType   = "Customer"
	DefaultAccountStatus = "Active"
)

// Account is a customer organization owned by one user.
type Account struct {
	ID                string        `json:"id" bson:"_id"`
	Name              string        `json:"name" bson:"name"`
	Industry          string        `json:"industry,omitempty" bson:"industry,omitempty"`
	Type              string        `json:"type" bson:"type"`
	Email             string        `json:"email,omitempty" bson:"email,omitempty"`
	Phone             string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Website           string        `json:"website,omitempty" bson:"website,omitempty"`
	Address           PostalAddress `json:"address" bson:"address"`
	AnnualRevenue     float64       `json:"annualRevenue,omitempty" bson:"annual_revenue,omitempty"`
	NumberOfEmployees int           `json:"numberOfEmployees,omitempty" bson:"number_of_employees,omitempty"`
	AssignedTo        string        `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	Status            string        `json:"status" bson:"status"`
	Description       string        `json:"description,omitempty" bson:"description,omitempty"`
	OrganizationID    string        `json:"organization,omitempty" bson:"organization_id,omitempty"`
	CreatedAt         time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" bson:"updated_at"`
}
