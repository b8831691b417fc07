package enums

import "fmt"

// Role describes what a user account is allowed to do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleStaff    Role = "staff"
	RoleCS       Role = "cs"
	RoleCustomer Role = "customer"
)

var validRoles = []Role{
	RoleAdmin,
	RoleSeller,
	RoleStaff,
	RoleCS,
	RoleCustomer,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsBackoffice reports whether the role grants access to the admin surface.
func (r Role) IsBackoffice() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleStaff, RoleCS:
		return true
	default:
		return false
	}
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
