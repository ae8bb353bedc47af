package enums

import "fmt"

// PurchaseStatus tracks the lifecycle of a share purchase.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

var validPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusPending,
	PurchaseStatusConfirmed,
	PurchaseStatusCompleted,
	PurchaseStatusCancelled,
}

// purchaseTransitions maps each status to the statuses it may advance to.
// Self-transitions are allowed so redelivered payment events stay idempotent.
var purchaseTransitions = map[PurchaseStatus][]PurchaseStatus{
	PurchaseStatusPending:   {PurchaseStatusConfirmed, PurchaseStatusCancelled},
	PurchaseStatusConfirmed: {PurchaseStatusCompleted, PurchaseStatusCancelled},
	PurchaseStatusCompleted: {},
	PurchaseStatusCancelled: {},
}

// String implements fmt.Stringer.
func (p PurchaseStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PurchaseStatus.
func (p PurchaseStatus) IsValid() bool {
	for _, candidate := range validPurchaseStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
func (p PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	if p == next {
		return true
	}
	for _, candidate := range purchaseTransitions[p] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (p PurchaseStatus) IsTerminal() bool {
	return len(purchaseTransitions[p]) == 0
}

// ParsePurchaseStatus converts raw input into a PurchaseStatus.
func ParsePurchaseStatus(value string) (PurchaseStatus, error) {
	for _, candidate := range validPurchaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase status %q", value)
}
