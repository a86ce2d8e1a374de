package domain

// Identity is the caller resolved from the store for the current request.
type Identity struct {
	UserID         string
	Role           Role
	OrganizationID string
}

// CrossTenant reports whether the caller may see every organization.
func (i Identity) CrossTenant() bool {
	return i.Role == RoleAdmin || i.OrganizationID == ""
}
