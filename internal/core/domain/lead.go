package domain

import "time"

// LeadStatus is the lifecycle state of a lead.
type LeadStatus string

const (
	LeadNew       LeadStatus = "New"
	LeadContacted LeadStatus = "Contacted"
	LeadQualified LeadStatus = "Qualified"
	LeadLost      LeadStatus = "Lost"
)

// LeadSources enumerates where a lead came from.
var LeadSources = []string{"Website", "Referral", "Campaign", "Social Media", "Cold Call", "Other"}

const DefaultLeadSource = "Website"

// Lead is a potential customer owned by one user.
type Lead struct {
	ID                 string     `json:"id" bson:"_id"`
	Name               string     `json:"name" bson:"name"`
	Company            string     `json:"company,omitempty" bson:"company,omitempty"`
	Email              string     `json:"email" bson:"email"`
	Phone              string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Source             string     `json:"source" bson:"source"`
	Status             LeadStatus `json:"status" bson:"status"`
	AssignedTo         string     `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	Campaign           string     `json:"campaign,omitempty" bson:"campaign,omitempty"`
	Notes              string     `json:"notes,omitempty" bson:"notes,omitempty"`
	ConvertedToContact bool       `json:"convertedToContact" bson:"converted_to_contact"`
	ConvertedToDeal    bool       `json:"convertedToDeal" bson:"converted_to_deal"`
	ConvertedDate      *time.Time `json:"convertedDate,omitempty" bson:"converted_date,omitempty"`
	OrganizationID     string     `json:"organization,omitempty" bson:"organization_id,omitempty"`
	CreatedAt          time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" bson:"updated_at"`
}

// ConversionTarget is what a lead turns into.
type ConversionTarget string

const (
	ConvertToContact ConversionTarget = "contact"
	ConvertToDeal    ConversionTarget = "deal"
)

// Convert marks the lead converted to target at the given time.
func (l *Lead) Convert(target ConversionTarget, at time.Time) {
	l.ConvertedToContact = target == ConvertToContact
	l.ConvertedToDeal = target == ConvertToDeal
	l.ConvertedDate = &at
	l.Status = LeadQualified
}
