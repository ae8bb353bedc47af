package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/account"
	"github.com/stripe/stripe-go/v84/accountlink"
	"github.com/stripe/stripe-go/v84/checkout/session"

	"github.com/farmdirectmeat/farmshare-backend/pkg/config"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
	pkgstripe "github.com/farmdirectmeat/farmshare-backend/pkg/stripe"
)

const connectMCC = "5499" // misc food stores

type stripeGateway struct {
	stripeCfg   config.StripeConfig
	checkoutCfg config.CheckoutConfig
}

// NewStripeGateway binds the configured Stripe client to the Gateway surface.
func NewStripeGateway(client *pkgstripe.Client, stripeCfg config.StripeConfig, checkoutCfg config.CheckoutConfig) (Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	return &stripeGateway{
		stripeCfg:   stripeCfg,
		checkoutCfg: checkoutCfg,
	}, nil
}

func (g *stripeGateway) origin(requested string) string {
	origin := strings.TrimRight(strings.TrimSpace(requested), "/")
	if origin == "" {
		origin = strings.TrimRight(g.checkoutCfg.DefaultOrigin, "/")
	}
	return origin
}

func (g *stripeGateway) subscriptionPriceID(priceType enums.MembershipType) (string, error) {
	switch priceType {
	case enums.MembershipTypeBuyer:
		return g.stripeCfg.BuyerPriceID, nil
	case enums.MembershipTypeFarmer:
		return g.stripeCfg.FarmerPriceID, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown price type")
	}
}

func (g *stripeGateway) CreateSubscriptionCheckout(ctx context.Context, in SubscriptionCheckoutInput) (*CheckoutResult, error) {
	priceID, err := g.subscriptionPriceID(in.PriceType)
	if err != nil {
		return nil, err
	}
	if priceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price not configured for tier")
	}

	params := buildSubscriptionSessionParams(in, priceID, g.origin(in.Origin))
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription checkout")
	}
	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) CreateConnectedAccount(ctx context.Context, in ConnectedAccountInput) (*ConnectedAccountResult, error) {
	origin := g.origin(in.Origin)

	accountParams := buildConnectedAccountParams(in, origin)
	accountParams.Context = ctx

	acct, err := account.New(accountParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create connected account")
	}

	linkParams := buildOnboardingLinkParams(acct.ID, origin)
	linkParams.Context = ctx

	link, err := accountlink.New(linkParams)
	if err != nil {
		// Account exists even though the link failed; hand the id back so the
		// caller can persist it and retry the link later.
		return &ConnectedAccountResult{AccountID: acct.ID},
			pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create onboarding link")
	}

	return &ConnectedAccountResult{AccountID: acct.ID, OnboardingURL: link.URL}, nil
}

func (g *stripeGateway) RefreshOnboardingLink(ctx context.Context, accountID, origin string) (string, error) {
	if strings.TrimSpace(accountID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}

	params := buildOnboardingLinkParams(accountID, g.origin(origin))
	params.Context = ctx

	link, err := accountlink.New(params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh onboarding link")
	}
	return link.URL, nil
}

func (g *stripeGateway) GetAccountReadiness(ctx context.Context, accountID string) (*AccountReadiness, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}

	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := account.GetByID(accountID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch account status")
	}
	return readinessFromAccount(acct), nil
}

func (g *stripeGateway) CreateSharePurchaseCheckout(ctx context.Context, in SharePurchaseCheckoutInput) (*CheckoutResult, error) {
	if strings.TrimSpace(in.DestinationAccount) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination account required")
	}

	params := buildPurchaseSessionParams(in, g.origin(in.Origin), g.checkoutCfg.PlatformFeeBPS)
	params.Context = ctx
	params.SetIdempotencyKey(purchaseIdempotencyKey(in, time.Now()))

	sess, err := session.New(params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase checkout")
	}
	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL}, nil
}

func buildSubscriptionSessionParams(in SubscriptionCheckoutInput, priceID, origin string) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(origin + "/dashboard?success=true"),
		CancelURL:  stripe.String(origin + "/#pricing"),
		Metadata: map[string]string{
			"userId":         in.UserID.String(),
			"membershipType": string(in.PriceType),
		},
	}
}

func buildConnectedAccountParams(in ConnectedAccountInput, origin string) *stripe.AccountParams {
	params := &stripe.AccountParams{
		Type:         stripe.String(string(stripe.AccountTypeExpress)),
		Country:      stripe.String("US"),
		BusinessType: stripe.String(string(stripe.AccountBusinessTypeIndividual)),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			MCC: stripe.String(connectMCC),
			URL: stripe.String(fmt.Sprintf("%s/farm/%s", origin, in.UserID)),
		},
		Metadata: map[string]string{
			"userId":   in.UserID.String(),
			"farmName": in.FarmName,
		},
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		params.Email = stripe.String(email)
	}
	return params
}

func buildOnboardingLinkParams(accountID, origin string) *stripe.AccountLinkParams {
	return &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(origin + "/farmer-dashboard?refresh=true"),
		ReturnURL:  stripe.String(origin + "/farmer-dashboard?onboarding=complete"),
		Type:       stripe.String("account_onboarding"),
	}
}

func buildPurchaseSessionParams(in SharePurchaseCheckoutInput, origin string, feeBPS int64) *stripe.CheckoutSessionParams {
	amountCents := AmountCents(in.Price)
	feeCents := PlatformFeeCents(amountCents, feeBPS)

	name := fmt.Sprintf("%s %s Share", in.Portion, animalLabel(in.AnimalType))
	description := fmt.Sprintf("From %s", in.FarmName)
	if in.WeightEstimate != "" {
		description = fmt.Sprintf("From %s - %s", in.FarmName, in.WeightEstimate)
	}

	return &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(name),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(feeCents),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(in.DestinationAccount),
			},
			Metadata: map[string]string{
				"shareId":    in.ShareID.String(),
				"farmId":     in.FarmID.String(),
				"buyerId":    in.BuyerID.String(),
				"animalType": string(in.AnimalType),
				"portion":    string(in.Portion),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/buyer-dashboard?purchase=success&share=%s", origin, in.ShareID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/farm/%s?cancelled=true", origin, in.FarmID)),
		Metadata: map[string]string{
			"shareId": in.ShareID.String(),
			"farmId":  in.FarmID.String(),
			"buyerId": in.BuyerID.String(),
			"type":    "share_purchase",
		},
	}
}

// purchaseIdempotencyWindow bounds how long a headerless retry collapses into
// the same Stripe request.
const purchaseIdempotencyWindow = 10 * time.Minute

func purchaseIdempotencyKey(in SharePurchaseCheckoutInput, now time.Time) string {
	if in.IdempotencyKey != "" {
		return fmt.Sprintf("share-purchase:%s:%s:%s", in.ShareID, in.BuyerID, in.IdempotencyKey)
	}
	bucket := now.UTC().Truncate(purchaseIdempotencyWindow).Unix()
	return fmt.Sprintf("share-purchase:%s:%s:w%d", in.ShareID, in.BuyerID, bucket)
}

func readinessFromAccount(acct *stripe.Account) *AccountReadiness {
	if acct == nil {
		return &AccountReadiness{RequiresAction: true}
	}
	return &AccountReadiness{
		AccountID:        acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
		RequiresAction:   !acct.ChargesEnabled || !acct.DetailsSubmitted,
	}
}

func animalLabel(at enums.AnimalType) string {
	switch at {
	case enums.AnimalTypePork:
		return "Pork"
	default:
		return "Beef"
	}
}
