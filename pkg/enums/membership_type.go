package enums

import "fmt"

// MembershipType is the subscription tier a user signed up for.
type MembershipType string

const (
	MembershipTypeBuyer  MembershipType = "buyer"
	MembershipTypeFarmer MembershipType = "farmer"
)

var validMembershipTypes = []MembershipType{
	MembershipTypeBuyer,
	MembershipTypeFarmer,
}

// String implements fmt.Stringer.
func (m MembershipType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MembershipType.
func (m MembershipType) IsValid() bool {
	for _, candidate := range validMembershipTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMembershipType converts raw input into a MembershipType.
func ParseMembershipType(value string) (MembershipType, error) {
	for _, candidate := range validMembershipTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid membership type %q", value)
}
