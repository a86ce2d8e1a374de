// Package policy holds the CRM permission matrix. Authorize is a pure
// function: it performs no I/O and keeps no state, so every request is
// evaluated against the caller's current role.
package policy

import "github.com/salesdesk/crm-api/internal/core/domain"

// Action is an operation a caller wants to perform.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionReport Action = "report"
)

// Kind identifies the resource family an action targets.
type Kind string

const (
	KindLeads      Kind = "leads"
	KindDeals      Kind = "deals"
	KindActivities Kind = "activities"
	KindAccounts   Kind = "accounts"
	KindContacts   Kind = "contacts"
	KindUsers      Kind = "users"
	KindReports    Kind = "reports"
	KindDashboard  Kind = "dashboard"
)

// Owned reports whether records of k carry an assignedTo owner.
func (k Kind) Owned() bool {
	switch k {
	case KindLeads, KindDeals, KindActivities, KindAccounts:
		return true
	}
	return false
}

// User fields only an administrator may write.
const (
	FieldRole   = "role"
	FieldStatus = "status"
)

// Credential fields only the account holder or an administrator may write.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Subject is the caller being authorized.
type Subject struct {
	ID   string
	Role domain.Role
}

// Resource describes what the action targets. ID and AssignedTo are empty
// for collection-level actions (list, create without owner). For users,
// ID is the target user and TargetRole its current role. Fields carries the
// names of the fields a create/update request writes. A user update of
// another account is only fully decided once TargetRole is known.
type Resource struct {
	Kind       Kind
	ID         string
	AssignedTo string
	TargetRole domain.Role
	Fields     []string
}

// Effect is the outcome class of a decision.
type Effect int

const (
	Deny Effect = iota
	Allow
	AllowScoped
)

func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case AllowScoped:
		return "allow_scoped"
	default:
		return "deny"
	}
}

// Scope narrows a query to the records a caller may see.
type Scope struct {
	AssignedTo string
}

// Decision is the result of Authorize.
type Decision struct {
	Effect Effect
	Scope  Scope
	Reason string
}

// Allowed reports whether the decision permits the action in any form.
func (d Decision) Allowed() bool {
	return d.Effect != Deny
}

func allow() Decision { return Decision{Effect: Allow} }

func allowScoped(ownerID string) Decision {
	return Decision{Effect: AllowScoped, Scope: Scope{AssignedTo: ownerID}}
}

func deny(reason string) Decision { return Decision{Effect: Deny, Reason: reason} }

// Deny reasons.
const (
	ReasonUnknownRole      = "unknown role"
	ReasonSelfDelete       = "cannot delete own account"
	ReasonInsufficientRole = "insufficient role"
	ReasonNotOwner         = "you can only access your own records"
	ReasonDeleteNotOwner   = "only managers or the record owner can delete"
	ReasonAdminOnlyFields  = "only admin can change role and status"
	ReasonDeleteAdmin      = "cannot delete an administrator"
	ReasonOwnProfileOnly   = "you can only access your own profile"
	ReasonModifyAdmin      = "cannot modify an administrator"
	ReasonCredentialFields = "only the account holder or an admin can change email and password"
)

// Authorize decides whether subject may perform action on res.
func Authorize(subject Subject, action Action, res Resource) Decision {
	tier := subject.Role.Tier()
	if tier == domain.TierNone {
		return deny(ReasonUnknownRole)
	}

	// Self-protection applies before any tier grant.
	if res.Kind == KindUsers && action == ActionDelete && res.ID != "" && res.ID == subject.ID {
		return deny(ReasonSelfDelete)
	}

	if tier == domain.TierAdmin {
		return allow()
	}

	switch {
	case res.Kind == KindUsers:
		return authorizeUsers(subject, tier, action, res)
	case res.Kind == KindReports:
		return requireTier(tier, domain.TierManager)
	case res.Kind == KindDashboard:
		if d := requireTier(tier, domain.TierExecutive); !d.Allowed() {
			return d
		}
		if subject.Role == domain.RoleSalesExecutive {
			return allowScoped(subject.ID)
		}
		return allow()
	case res.Kind == KindContacts:
		return authorizeShared(tier, action)
	case res.Kind.Owned():
		return authorizeOwned(subject, tier, action, res)
	}
	return deny(ReasonInsufficientRole)
}

func requireTier(have, want domain.Tier) Decision {
	if have >= want {
		return allow()
	}
	return deny(ReasonInsufficientRole)
}

// authorizeOwned applies the tier table and the ownership rule to leads,
// deals, activities and accounts.
func authorizeOwned(subject Subject, tier domain.Tier, action Action, res Resource) Decision {
	if tier < domain.TierExecutive {
		return deny(ReasonInsufficientRole)
	}
	if tier >= domain.TierManager {
		return allow()
	}

	owner := res.AssignedTo != "" && res.AssignedTo == subject.ID
	scoped := subject.Role == domain.RoleSalesExecutive

	switch action {
	case ActionList:
		if scoped {
			return allowScoped(subject.ID)
		}
		return allow()
	case ActionRead, ActionUpdate:
		if scoped && !owner {
			return deny(ReasonNotOwner)
		}
		return allow()
	case ActionCreate:
		if scoped && res.AssignedTo != "" && !owner {
			return deny(ReasonNotOwner)
		}
		return allow()
	case ActionDelete:
		if !owner {
			return deny(ReasonDeleteNotOwner)
		}
		return allow()
	}
	return deny(ReasonInsufficientRole)
}

// authorizeShared covers records without an owner.
func authorizeShared(tier domain.Tier, action Action) Decision {
	switch action {
	case ActionList, ActionRead, ActionCreate, ActionUpdate:
		return requireTier(tier, domain.TierExecutive)
	case ActionDelete:
		return requireTier(tier, domain.TierManager)
	}
	return deny(ReasonInsufficientRole)
}

func authorizeUsers(subject Subject, tier domain.Tier, action Action, res Resource) Decision {
	self := res.ID != "" && res.ID == subject.ID
	manager := tier >= domain.TierManager

	switch action {
	case ActionList:
		return requireTier(tier, domain.TierManager)
	case ActionRead:
		if manager || self {
			return allow()
		}
		return deny(ReasonOwnProfileOnly)
	case ActionCreate, ActionUpdate:
		// Customers are read-only even on their own profile.
		selfEdit := action == ActionUpdate && self && tier >= domain.TierExecutive
		if !manager && !selfEdit {
			return deny(ReasonOwnProfileOnly)
		}
		if writesAdminOnlyField(res.Fields) {
			return deny(ReasonAdminOnlyFields)
		}
		if action == ActionUpdate && !self {
			if res.TargetRole == domain.RoleAdmin {
				return deny(ReasonModifyAdmin)
			}
			if writesField(res.Fields, FieldEmail, FieldPassword) {
				return deny(ReasonCredentialFields)
			}
		}
		return allow()
	case ActionDelete:
		if !manager {
			return deny(ReasonInsufficientRole)
		}
		if res.TargetRole == domain.RoleAdmin {
			return deny(ReasonDeleteAdmin)
		}
		return allow()
	}
	return deny(ReasonInsufficientRole)
}

func writesAdminOnlyField(fields []string) bool {
	return writesField(fields, FieldRole, FieldStatus)
}

func writesField(fields []string, names ...string) bool {
	for _, f := range fields {
		for _, n := range names {
			if f == n {
				return true
			}
		}
	}
	return false
}
