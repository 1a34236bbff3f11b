package domain

// Role enumerates dashboard personas.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleBrand Role = "brand"
)

// Roles lists every recognised role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleStaff, RoleBrand}
}

// Valid reports whether r is a recognised role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleBrand:
		return true
	default:
		return false
	}
}

// HomePath returns the landing path for the role, or "" when the role is unknown.
func (r Role) HomePath() string {
	if !r.Valid() {
		return ""
	}
	return "/" + string(r)
}
