package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// SubscriptionCheckoutInput carries what a membership checkout needs.
type SubscriptionCheckoutInput struct {
	UserID    uuid.UUID
	PriceType enums.MembershipType
	Origin    string
}

// ConnectedAccountInput describes the farm going through Express onboarding.
type ConnectedAccountInput struct {
	UserID   uuid.UUID
	Email    string
	FarmName string
	Origin   string
}

// ConnectedAccountResult returns the new account and its onboarding link.
// OnboardingURL may be empty when the account was created but the link
// call failed; the account id must still be persisted.
type ConnectedAccountResult struct {
	AccountID     string
	OnboardingURL string
}

// AccountReadiness mirrors the connect account status flags.
type AccountReadiness struct {
	AccountID        string `json:"accountId"`
	ChargesEnabled   bool   `json:"chargesEnabled"`
	PayoutsEnabled   bool   `json:"payoutsEnabled"`
	DetailsSubmitted bool   `json:"detailsSubmitted"`
	RequiresAction   bool   `json:"requiresAction"`
}

// SharePurchaseCheckoutInput carries everything the destination charge needs.
type SharePurchaseCheckoutInput struct {
	ShareID            uuid.UUID
	FarmID             uuid.UUID
	BuyerID            uuid.UUID
	FarmName           string
	AnimalType         enums.AnimalType
	Portion            enums.SharePortion
	WeightEstimate     string
	Price              decimal.Decimal
	DestinationAccount string
	Origin             string
	IdempotencyKey     string
}

// CheckoutResult is the hosted checkout redirect.
type CheckoutResult struct {
	SessionID string
	URL       string
}

// Gateway is the payment processor surface the domain services depend on.
type Gateway interface {
	CreateSubscriptionCheckout(ctx context.Context, in SubscriptionCheckoutInput) (*CheckoutResult, error)
	CreateConnectedAccount(ctx context.Context, in ConnectedAccountInput) (*ConnectedAccountResult, error)
	RefreshOnboardingLink(ctx context.Context, accountID, origin string) (string, error)
	GetAccountReadiness(ctx context.Context, accountID string) (*AccountReadiness, error)
	CreateSharePurchaseCheckout(ctx context.Context, in SharePurchaseCheckoutInput) (*CheckoutResult, error)
}
