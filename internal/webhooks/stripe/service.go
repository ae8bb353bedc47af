// Package stripewebhook turns verified Stripe events into purchase and
// membership state changes. Confirmation is webhook-owned: checkout never
// assumes payment happened.
package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/internal/memberships"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

// sessionTypeSharePurchase marks destination-charge checkout sessions.
const sessionTypeSharePurchase = "share_purchase"

type purchaseRepository interface {
	FindBySessionIDWithTx(tx *gorm.DB, sessionID string) (*models.SharePurchase, error)
	UpdateWithTx(tx *gorm.DB, purchase *models.SharePurchase) error
}

type shareDecrementer interface {
	DecrementAvailableWithTx(tx *gorm.DB, shareID uuid.UUID) (bool, error)
}

type membershipActivator interface {
	Activate(ctx context.Context, input memberships.ActivateInput) (*memberships.MembershipDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	PurchaseRepo      purchaseRepository
	ShareRepo         shareDecrementer
	Memberships       membershipActivator
	TransactionRunner txRunner
}

type Service struct {
	purchaseRepo purchaseRepository
	shareRepo    shareDecrementer
	memberships  membershipActivator
	txRunner     txRunner
}

func NewService(params ServiceParams) (*Service, error) {
	if params.PurchaseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "purchase repo required")
	}
	if params.ShareRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "share repo required")
	}
	if params.Memberships == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "membership service required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{
		purchaseRepo: params.PurchaseRepo,
		shareRepo:    params.ShareRepo,
		memberships:  params.Memberships,
		txRunner:     params.TransactionRunner,
	}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		session, err := decodeSession(event)
		if err != nil {
			return err
		}
		if session.Metadata["type"] == sessionTypeSharePurchase {
			return s.confirmPurchase(ctx, session)
		}
		if session.Metadata["membershipType"] != "" {
			return s.activateMembership(ctx, session)
		}
		return nil
	case stripe.EventTypeCheckoutSessionExpired,
		stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		session, err := decodeSession(event)
		if err != nil {
			return err
		}
		return s.releasePurchase(ctx, session)
	default:
		return nil
	}
}

func decodeSession(event *stripe.Event) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
	}
	return &session, nil
}

// confirmPurchase moves the pending row to confirmed and takes one unit off
// the share, all in one transaction. Redeliveries see the purchase already
// confirmed and change nothing.
func (s *Service) confirmPurchase(ctx context.Context, session *stripe.CheckoutSession) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		purchase, err := s.purchaseRepo.FindBySessionIDWithTx(tx, session.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found for session")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
		}

		if purchase.Status != enums.PurchaseStatusPending {
			// Already confirmed (redelivery) or cancelled after payment; the
			// latter is an operator problem, not a webhook retry problem.
			return nil
		}
		if !purchase.Status.CanTransitionTo(enums.PurchaseStatusConfirmed) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "purchase cannot be confirmed")
		}

		purchase.Status = enums.PurchaseStatusConfirmed
		if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
			intentID := session.PaymentIntent.ID
			purchase.StripePaymentIntentID = &intentID
		}
		if err := s.purchaseRepo.UpdateWithTx(tx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm purchase")
		}

		// The payment is already captured; a false here means the listing
		// oversold and quantity stays clamped at zero.
		if _, err := s.shareRepo.DecrementAvailableWithTx(tx, purchase.ShareID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement share quantity")
		}
		return nil
	})
}

// releasePurchase cancels the pending row when the session expired or the
// payment failed. No quantity was taken, so nothing is returned.
func (s *Service) releasePurchase(ctx context.Context, session *stripe.CheckoutSession) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		purchase, err := s.purchaseRepo.FindBySessionIDWithTx(tx, session.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Subscription sessions have no purchase row.
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
		}
		if purchase.Status != enums.PurchaseStatusPending {
			return nil
		}

		purchase.Status = enums.PurchaseStatusCancelled
		if err := s.purchaseRepo.UpdateWithTx(tx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel purchase")
		}
		return nil
	})
}

func (s *Service) activateMembership(ctx context.Context, session *stripe.CheckoutSession) error {
	userID, err := uuid.Parse(session.Metadata["userId"])
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "membership session missing user id")
	}
	membershipType, err := enums.ParseMembershipType(session.Metadata["membershipType"])
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "membership session missing tier")
	}

	subscriptionID := ""
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}

	_, err = s.memberships.Activate(ctx, memberships.ActivateInput{
		UserID:         userID,
		MembershipType: membershipType,
		PricePaidCents: int(session.AmountTotal),
		SubscriptionID: subscriptionID,
	})
	return err
}
