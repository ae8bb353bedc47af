package enums

import "fmt"

// FarmerRequestStatus tracks a farmer role request through review.
type FarmerRequestStatus string

const (
	FarmerRequestStatusPending  FarmerRequestStatus = "pending"
	FarmerRequestStatusApproved FarmerRequestStatus = "approved"
	FarmerRequestStatusRejected FarmerRequestStatus = "rejected"
)

var validFarmerRequestStatuses = []FarmerRequestStatus{
	FarmerRequestStatusPending,
	FarmerRequestStatusApproved,
	FarmerRequestStatusRejected,
}

// String implements fmt.Stringer.
func (f FarmerRequestStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FarmerRequestStatus.
func (f FarmerRequestStatus) IsValid() bool {
	for _, candidate := range validFarmerRequestStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFarmerRequestStatus converts raw input into a FarmerRequestStatus.
func ParseFarmerRequestStatus(value string) (FarmerRequestStatus, error) {
	for _, candidate := range validFarmerRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid farmer request status %q", value)
}
