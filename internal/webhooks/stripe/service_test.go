package stripewebhook

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/internal/memberships"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

type stubPurchaseRepo struct {
	purchase *models.SharePurchase
	updated  []*models.SharePurchase
}

func (s *stubPurchaseRepo) FindBySessionIDWithTx(_ *gorm.DB, sessionID string) (*models.SharePurchase, error) {
	if s.purchase == nil || s.purchase.StripeSessionID == nil || *s.purchase.StripeSessionID != sessionID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.purchase, nil
}

func (s *stubPurchaseRepo) UpdateWithTx(_ *gorm.DB, purchase *models.SharePurchase) error {
	s.updated = append(s.updated, purchase)
	return nil
}

type stubShareRepo struct {
	decrements int
	taken      bool
}

func (s *stubShareRepo) DecrementAvailableWithTx(_ *gorm.DB, _ uuid.UUID) (bool, error) {
	s.decrements++
	return s.taken, nil
}

type stubActivator struct {
	input *memberships.ActivateInput
}

func (s *stubActivator) Activate(_ context.Context, input memberships.ActivateInput) (*memberships.MembershipDTO, error) {
	s.input = &input
	return &memberships.MembershipDTO{ID: uuid.New()}, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, purchases *stubPurchaseRepo, shares *stubShareRepo, activator *stubActivator) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		PurchaseRepo:      purchases,
		ShareRepo:         shares,
		Memberships:       activator,
		TransactionRunner: stubTxRunner{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sessionEvent(t *testing.T, eventType stripe.EventType, session map[string]any) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	return &stripe.Event{
		ID:   "evt_" + uuid.NewString(),
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func pendingPurchase(sessionID string) *models.SharePurchase {
	return &models.SharePurchase{
		ID:              uuid.New(),
		BuyerID:         uuid.New(),
		ShareID:         uuid.New(),
		FarmID:          uuid.New(),
		Status:          enums.PurchaseStatusPending,
		StripeSessionID: &sessionID,
	}
}

func TestCompletedSessionConfirmsPurchase(t *testing.T) {
	purchase := pendingPurchase("cs_1")
	purchases := &stubPurchaseRepo{purchase: purchase}
	shares := &stubShareRepo{taken: true}
	svc := newTestService(t, purchases, shares, &stubActivator{})

	event := sessionEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":             "cs_1",
		"payment_intent": map[string]any{"id": "pi_1"},
		"metadata":       map[string]string{"type": "share_purchase"},
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if purchase.Status != enums.PurchaseStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", purchase.Status)
	}
	if purchase.StripePaymentIntentID == nil || *purchase.StripePaymentIntentID != "pi_1" {
		t.Fatal("payment intent id should be stored")
	}
	if shares.decrements != 1 {
		t.Fatalf("expected one quantity decrement, got %d", shares.decrements)
	}
}

func TestCompletedSessionRedeliveryIsNoOp(t *testing.T) {
	purchase := pendingPurchase("cs_1")
	purchase.Status = enums.PurchaseStatusConfirmed
	purchases := &stubPurchaseRepo{purchase: purchase}
	shares := &stubShareRepo{taken: true}
	svc := newTestService(t, purchases, shares, &stubActivator{})

	event := sessionEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":       "cs_1",
		"metadata": map[string]string{"type": "share_purchase"},
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(purchases.updated) != 0 {
		t.Fatal("redelivery must not rewrite the purchase")
	}
	if shares.decrements != 0 {
		t.Fatal("redelivery must not decrement quantity again")
	}
}

func TestExpiredSessionCancelsWithoutDecrement(t *testing.T) {
	purchase := pendingPurchase("cs_1")
	purchases := &stubPurchaseRepo{purchase: purchase}
	shares := &stubShareRepo{}
	svc := newTestService(t, purchases, shares, &stubActivator{})

	event := sessionEvent(t, stripe.EventTypeCheckoutSessionExpired, map[string]any{"id": "cs_1"})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if purchase.Status != enums.PurchaseStatusCancelled {
		t.Fatalf("status = %s, want cancelled", purchase.Status)
	}
	if shares.decrements != 0 {
		t.Fatal("expiry must never touch quantity")
	}
}

func TestExpiredSessionUnknownPurchaseIgnored(t *testing.T) {
	svc := newTestService(t, &stubPurchaseRepo{}, &stubShareRepo{}, &stubActivator{})

	event := sessionEvent(t, stripe.EventTypeCheckoutSessionExpired, map[string]any{"id": "cs_sub"})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("subscription sessions have no purchase row: %v", err)
	}
}

func TestCompletedSessionActivatesMembership(t *testing.T) {
	activator := &stubActivator{}
	svc := newTestService(t, &stubPurchaseRepo{}, &stubShareRepo{}, activator)

	userID := uuid.New()
	event := sessionEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":           "cs_sub",
		"amount_total": 4900,
		"subscription": map[string]any{"id": "sub_1"},
		"metadata": map[string]string{
			"userId":         userID.String(),
			"membershipType": "buyer",
		},
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if activator.input == nil {
		t.Fatal("expected membership activation")
	}
	if activator.input.UserID != userID || activator.input.MembershipType != enums.MembershipTypeBuyer {
		t.Fatalf("unexpected activation input: %+v", activator.input)
	}
	if activator.input.PricePaidCents != 4900 || activator.input.SubscriptionID != "sub_1" {
		t.Fatalf("unexpected activation input: %+v", activator.input)
	}
}

func TestUnhandledEventTypesIgnored(t *testing.T) {
	svc := newTestService(t, &stubPurchaseRepo{}, &stubShareRepo{}, &stubActivator{})

	event := sessionEvent(t, stripe.EventTypePaymentIntentCreated, map[string]any{"id": "pi_1"})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
}
