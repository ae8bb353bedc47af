package payments

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

func TestBuildPurchaseSessionParams(t *testing.T) {
	shareID := uuid.New()
	farmID := uuid.New()
	buyerID := uuid.New()

	in := SharePurchaseCheckoutInput{
		ShareID:            shareID,
		FarmID:             farmID,
		BuyerID:            buyerID,
		FarmName:           "Green Pastures",
		AnimalType:         enums.AnimalTypeBeef,
		Portion:            enums.SharePortionQuarter,
		WeightEstimate:     "100-120 lbs",
		Price:              decimal.RequireFromString("650.00"),
		DestinationAccount: "acct_123",
	}

	params := buildPurchaseSessionParams(in, "https://farmdirectmeat.com", 100)

	require.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)
	require.Len(t, params.LineItems, 1)

	item := params.LineItems[0]
	require.Equal(t, int64(65000), *item.PriceData.UnitAmount)
	require.Equal(t, "1/4 Beef Share", *item.PriceData.ProductData.Name)
	require.Equal(t, "From Green Pastures - 100-120 lbs", *item.PriceData.ProductData.Description)

	pi := params.PaymentIntentData
	require.Equal(t, int64(650), *pi.ApplicationFeeAmount)
	require.Equal(t, "acct_123", *pi.TransferData.Destination)
	require.Equal(t, shareID.String(), pi.Metadata["shareId"])
	require.Equal(t, "beef", pi.Metadata["animalType"])
	require.Equal(t, "1/4", pi.Metadata["portion"])

	require.Equal(t, "share_purchase", params.Metadata["type"])
	require.Equal(t, buyerID.String(), params.Metadata["buyerId"])
	require.Equal(t,
		"https://farmdirectmeat.com/buyer-dashboard?purchase=success&share="+shareID.String(),
		*params.SuccessURL)
	require.Equal(t,
		"https://farmdirectmeat.com/farm/"+farmID.String()+"?cancelled=true",
		*params.CancelURL)
}

func TestBuildPurchaseSessionParamsOmitsWeightWhenUnknown(t *testing.T) {
	in := SharePurchaseCheckoutInput{
		ShareID:            uuid.New(),
		FarmID:             uuid.New(),
		BuyerID:            uuid.New(),
		FarmName:           "Hilltop",
		AnimalType:         enums.AnimalTypePork,
		Portion:            enums.SharePortionWhole,
		Price:              decimal.RequireFromString("1200"),
		DestinationAccount: "acct_9",
	}
	params := buildPurchaseSessionParams(in, "https://farmdirectmeat.com", 100)
	require.Equal(t, "whole Pork Share", *params.LineItems[0].PriceData.ProductData.Name)
	require.Equal(t, "From Hilltop", *params.LineItems[0].PriceData.ProductData.Description)
}

func TestBuildConnectedAccountParams(t *testing.T) {
	userID := uuid.New()
	in := ConnectedAccountInput{
		UserID:   userID,
		Email:    "farmer@example.com",
		FarmName: "Green Pastures",
	}

	params := buildConnectedAccountParams(in, "https://farmdirectmeat.com")

	require.Equal(t, string(stripe.AccountTypeExpress), *params.Type)
	require.Equal(t, "US", *params.Country)
	require.Equal(t, string(stripe.AccountBusinessTypeIndividual), *params.BusinessType)
	require.True(t, *params.Capabilities.CardPayments.Requested)
	require.True(t, *params.Capabilities.Transfers.Requested)
	require.Equal(t, connectMCC, *params.BusinessProfile.MCC)
	require.Equal(t, "https://farmdirectmeat.com/farm/"+userID.String(), *params.BusinessProfile.URL)
	require.Equal(t, "Green Pastures", params.Metadata["farmName"])
	require.Equal(t, "farmer@example.com", *params.Email)
}

func TestBuildOnboardingLinkParams(t *testing.T) {
	params := buildOnboardingLinkParams("acct_55", "https://farmdirectmeat.com")
	require.Equal(t, "acct_55", *params.Account)
	require.Equal(t, "https://farmdirectmeat.com/farmer-dashboard?refresh=true", *params.RefreshURL)
	require.Equal(t, "https://farmdirectmeat.com/farmer-dashboard?onboarding=complete", *params.ReturnURL)
	require.Equal(t, "account_onboarding", *params.Type)
}

func TestBuildSubscriptionSessionParams(t *testing.T) {
	userID := uuid.New()
	in := SubscriptionCheckoutInput{UserID: userID, PriceType: enums.MembershipTypeBuyer}

	params := buildSubscriptionSessionParams(in, "price_abc", "https://farmdirectmeat.com")

	require.Equal(t, string(stripe.CheckoutSessionModeSubscription), *params.Mode)
	require.Equal(t, "price_abc", *params.LineItems[0].Price)
	require.Equal(t, "https://farmdirectmeat.com/dashboard?success=true", *params.SuccessURL)
	require.Equal(t, "https://farmdirectmeat.com/#pricing", *params.CancelURL)
	require.Equal(t, userID.String(), params.Metadata["userId"])
	require.Equal(t, "buyer", params.Metadata["membershipType"])
}

func TestReadinessFromAccount(t *testing.T) {
	ready := readinessFromAccount(&stripe.Account{
		ID:               "acct_1",
		ChargesEnabled:   true,
		PayoutsEnabled:   true,
		DetailsSubmitted: true,
	})
	require.False(t, ready.RequiresAction)

	// Charges disabled always demands action, even with details submitted.
	pendingCharges := readinessFromAccount(&stripe.Account{
		ID:               "acct_2",
		DetailsSubmitted: true,
	})
	require.True(t, pendingCharges.RequiresAction)

	// Details missing demands action even when charges are already enabled.
	pendingDetails := readinessFromAccount(&stripe.Account{
		ID:             "acct_3",
		ChargesEnabled: true,
	})
	require.True(t, pendingDetails.RequiresAction)

	require.True(t, readinessFromAccount(nil).RequiresAction)
}

func TestOriginFallback(t *testing.T) {
	g := &stripeGateway{}
	g.checkoutCfg.DefaultOrigin = "https://farmdirectmeat.com"
	require.Equal(t, "https://farmdirectmeat.com", g.origin(""))
	require.Equal(t, "https://staging.example.com", g.origin("https://staging.example.com/"))
}

func TestPurchaseIdempotencyKeyStable(t *testing.T) {
	now := time.Now()
	in := SharePurchaseCheckoutInput{ShareID: uuid.New(), BuyerID: uuid.New(), IdempotencyKey: "abc"}
	require.Equal(t, purchaseIdempotencyKey(in, now), purchaseIdempotencyKey(in, now))
	other := in
	other.IdempotencyKey = "def"
	require.NotEqual(t, purchaseIdempotencyKey(in, now), purchaseIdempotencyKey(other, now))
}

func TestPurchaseIdempotencyKeyDerivedWithoutHeader(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 3, 0, 0, time.UTC)
	in := SharePurchaseCheckoutInput{ShareID: uuid.New(), BuyerID: uuid.New()}

	// A double-click without an Idempotency-Key header lands in the same
	// window and must collapse into one Stripe request.
	require.Equal(t,
		purchaseIdempotencyKey(in, base),
		purchaseIdempotencyKey(in, base.Add(2*time.Second)))

	require.NotEqual(t,
		purchaseIdempotencyKey(in, base),
		purchaseIdempotencyKey(in, base.Add(purchaseIdempotencyWindow)))

	otherBuyer := in
	otherBuyer.BuyerID = uuid.New()
	require.NotEqual(t,
		purchaseIdempotencyKey(in, base),
		purchaseIdempotencyKey(otherBuyer, base))
}
