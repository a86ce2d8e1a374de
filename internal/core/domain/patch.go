package domain

import "time"

// The patch types carry partial updates. A nil field is left unchanged.

// LeadPatch is a partial update of a Lead.
type LeadPatch struct {
	Name       *string
	Company    *string
	Email      *string
	Phone      *string
	Source     *string
	Status     *LeadStatus
	AssignedTo *string
	Campaign   *string
	Notes      *string
}

func (p LeadPatch) Apply(l *Lead) {
	setString(&l.Name, p.Name)
	setString(&l.Company, p.Company)
	setString(&l.Email, p.Email)
	setString(&l.Phone, p.Phone)
	setString(&l.Source, p.Source)
	if p.Status != nil {
		l.Status = *p.Status
	}
	setString(&l.AssignedTo, p.AssignedTo)
	setString(&l.Campaign, p.Campaign)
	setString(&l.Notes, p.Notes)
}

// DealPatch is a partial update of a Deal.
type DealPatch struct {
	DealName          *string
	Stage             *DealStage
	Value             *float64
	ExpectedCloseDate *time.Time
	ActualCloseDate   *time.Time
	ContactID         *string
	AccountID         *string
	AssignedTo        *string
	Description       *string
	Probability       *int
	Currency          *string
}

func (p DealPatch) Apply(d *Deal) {
	setString(&d.DealName, p.DealName)
	if p.Stage != nil {
		d.Stage = *p.Stage
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.ExpectedCloseDate != nil {
		d.ExpectedCloseDate = *p.ExpectedCloseDate
	}
	if p.ActualCloseDate != nil {
		at := *p.ActualCloseDate
		d.ActualCloseDate = &at
	}
	setString(&d.ContactID, p.ContactID)
	setString(&d.AccountID, p.AccountID)
	setString(&d.AssignedTo, p.AssignedTo)
	setString(&d.Description, p.Description)
	if p.Probability != nil {
		d.Probability = *p.Probability
	}
	setString(&d.Currency, p.Currency)
}

// ActivityPatch is a partial update of an Activity.
type ActivityPatch struct {
	Type          *string
	Title         *string
	Description   *string
	DueDate       *time.Time
	CompletedDate *time.Time
	Status        *ActivityStatus
	AssignedTo    *string
	RelatedTo     *string
	RelatedID     *string
	Priority      *string
	Reminder      *Reminder
}

func (p ActivityPatch) Apply(a *Activity) {
	setString(&a.Type, p.Type)
	setString(&a.Title, p.Title)
	setString(&a.Description, p.Description)
	if p.DueDate != nil {
		a.DueDate = *p.DueDate
	}
	if p.CompletedDate != nil {
		at := *p.CompletedDate
		a.CompletedDate = &at
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	setString(&a.AssignedTo, p.AssignedTo)
	setString(&a.RelatedTo, p.RelatedTo)
	setString(&a.RelatedID, p.RelatedID)
	setString(&a.Priority, p.Priority)
	if p.Reminder != nil {
		a.Reminder = *p.Reminder
	}
}

// AccountPatch is a partial update of an Account.
type AccountPatch struct {
	Name              *string
	Industry          *string
	Type              *string
	Email             *string
	Phone             *string
	Website           *string
	Address           *PostalAddress
	AnnualRevenue     *float64
	NumberOfEmployees *int
	AssignedTo        *string
	Status            *string
	Description       *string
}

func (p AccountPatch) Apply(a *Account) {
	setString(&a.Name, p.Name)
	setString(&a.Industry, p.Industry)
	setString(&a.Type, p.Type)
	setString(&a.Email, p.Email)
	setString(&a.Phone, p.Phone)
	setString(&a.Website, p.Website)
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.AnnualRevenue != nil {
		a.AnnualRevenue = *p.AnnualRevenue
	}
	if p.NumberOfEmployees != nil {
		a.NumberOfEmployees = *p.NumberOfEmployees
	}
	setString(&a.AssignedTo, p.AssignedTo)
	setString(&a.Status, p.Status)
	setString(&a.Description, p.Description)
}

// ContactPatch is a partial update of a Contact.
type ContactPatch struct {
	FirstName              *string
	LastName               *string
	Email                  *string
	Phone                  *string
	AccountID              *string
	JobTitle               *string
	Department             *string
	Address                *PostalAddress
	PreferredContactMethod *string
	Notes                  *string
}

func (p ContactPatch) Apply(c *Contact) {
	setString(&c.FirstName, p.FirstName)
	setString(&c.LastName, p.LastName)
	setString(&c.Email, p.Email)
	setString(&c.Phone, p.Phone)
	setString(&c.AccountID, p.AccountID)
	setString(&c.JobTitle, p.JobTitle)
	setString(&c.Department, p.Department)
	if p.Address != nil {
		c.Address = *p.Address
	}
	setString(&c.PreferredContactMethod, p.PreferredContactMethod)
	setString(&c.Notes, p.Notes)
}

// UserPatch is a partial update of a User. Password is plain text and is
// hashed by the service.
type UserPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Company  *string
	Password *string
	Role     *Role
	Status   *UserStatus
}

// Fields lists the names of the fields p writes.
func (p UserPatch) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(p.Name != nil, "name")
	add(p.Email != nil, "email")
	add(p.Phone != nil, "phone")
	add(p.Company != nil, "company")
	add(p.Password != nil, "password")
	add(p.Role != nil, "role")
	add(p.Status != nil, "status")
	return fields
}

// Apply copies every field except Password onto u.
func (p UserPatch) Apply(u *User) {
	setString(&u.Name, p.Name)
	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}
	setString(&u.Phone, p.Phone)
	setString(&u.Company, p.Company)
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
