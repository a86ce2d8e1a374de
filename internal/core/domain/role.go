package domain

// Role is one of the fixed set of CRM roles.
type Role string

const (
	RoleAdmin              Role = "System Admin"
	RoleSalesManager       Role = "Sales Manager"
	RoleSalesExecutive     Role = "Sales Executive"
	RoleMarketingExecutive Role = "Marketing Executive"
	RoleSupportExecutive   Role = "Support Executive"
	RoleCustomer           Role = "Customer"
)

// Roles lists every valid role, highest privilege first.
var Roles = []Role{
	RoleAdmin,
	RoleSalesManager,
	RoleSalesExecutive,
	RoleMarketingExecutive,
	RoleSupportExecutive,
	RoleCustomer,
}

// ExecutiveRoles are the mutually incomparable executive peers.
var ExecutiveRoles = []Role{
	RoleSalesExecutive,
	RoleMarketingExecutive,
	RoleSupportExecutive,
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Tier groups roles that share identical grants.
type Tier int

const (
	TierNone Tier = iota
	TierCustomer
	TierExecutive
	TierManager
	TierAdmin
)

// Tier returns the privilege tier of r. Unknown roles map to TierNone.
func (r Role) Tier() Tier {
	switch r {
	case RoleAdmin:
		return TierAdmin
	case RoleSalesManager:
		return TierManager
	case RoleSalesExecutive, RoleMarketingExecutive, RoleSupportExecutive:
		return TierExecutive
	case RoleCustomer:
		return TierCustomer
	default:
		return TierNone
	}
}

func (t Tier) String() string {
	switch t {
	case TierAdmin:
		return "admin"
	case TierManager:
		return "manager"
	case TierExecutive:
		return "executive"
	case TierCustomer:
		return "customer"
	default:
		return "none"
	}
}
