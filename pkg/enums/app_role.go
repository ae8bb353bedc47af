package enums

import "fmt"

// AppRole grants access to role-gated route groups.
type AppRole string

const (
	AppRoleAdmin  AppRole = "admin"
	AppRoleFarmer AppRole = "farmer"
	AppRoleBuyer  AppRole = "buyer"
)

var validAppRoles = []AppRole{
	AppRoleAdmin,
	AppRoleFarmer,
	AppRoleBuyer,
}

// String implements fmt.Stringer.
func (a AppRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AppRole.
func (a AppRole) IsValid() bool {
	for _, candidate := range validAppRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAppRole converts raw input into an AppRole.
func ParseAppRole(value string) (AppRole, error) {
	for _, candidate := range validAppRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid app role %q", value)
}
