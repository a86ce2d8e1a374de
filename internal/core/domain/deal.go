package domain

import "time"

// DealStage is the pipeline position of a deal.
type DealStage string

const (
	StageProspecting DealStage = "Prospecting"
	StageProposal    DealStage = "Proposal"
	StageNegotiation DealStage = "Negotiation"
	StageClosedWon   DealStage = "Closed Won"
	StageClosedLost  DealStage = "Closed Lost"
)

// Closed reports whether the deal has left the open pipeline.
func (s DealStage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

const (
	DefaultDealProbability = 50
	DefaultCurrency        = "USD"
)

// Deal is a sales opportunity tracked through the pipeline.
type Deal struct {
	ID                string     `json:"id" bson:"_id"`
	DealName          string     `json:"dealName" bson:"deal_name"`
	Stage             DealStage  `json:"stage" bson:"stage"`
	Value             float64    `json:"value" bson:"value"`
	ExpectedCloseDate time.Time  `json:"expectedCloseDate" bson:"expected_close_date"`
	ActualCloseDate   *time.Time `json:"actualCloseDate,omitempty" bson:"actual_close_date,omitempty"`
	ContactID         string     `json:"contact,omitempty" bson:"contact_id,omitempty"`
	AccountID         string     `json:"account,omitempty" bson:"account_id,omitempty"`
	AssignedTo        string     `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	Description       string     `json:"description,omitempty" bson:"description,omitempty"`
	Probability       int        `json:"probability" bson:"probability"`
	Currency          string     `json:"currency" bson:"currency"`
	OrganizationID    string     `json:"organization,omitempty" bson:"organization_id,omitempty"`
	CreatedAt         time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" bson:"updated_at"`
}
