package onboarding

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/internal/payments"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
)

type stubFarmStore struct {
	farm           *models.Farm
	setAccountID   *string
	completeCalls  int
	completeFlip   bool
	setAccountErr  error
	markCompleteFn func() (bool, error)
}

func (s *stubFarmStore) FindByOwner(_ context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	if s.farm == nil || s.farm.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.farm
	return &cpy, nil
}

func (s *stubFarmStore) SetStripeAccountID(_ context.Context, _ uuid.UUID, accountID string) error {
	if s.setAccountErr != nil {
		return s.setAccountErr
	}
	s.setAccountID = &accountID
	return nil
}

func (s *stubFarmStore) MarkOnboardingComplete(_ context.Context, _ uuid.UUID) (bool, error) {
	s.completeCalls++
	if s.markCompleteFn != nil {
		return s.markCompleteFn()
	}
	return s.completeFlip, nil
}

type stubGateway struct {
	accountResult *payments.ConnectedAccountResult
	accountErr    error
	refreshURL    string
	refreshCalls  int
	readiness     *payments.AccountReadiness
}

func (s *stubGateway) CreateSubscriptionCheckout(_ context.Context, _ payments.SubscriptionCheckoutInput) (*payments.CheckoutResult, error) {
	return nil, nil
}

func (s *stubGateway) CreateConnectedAccount(_ context.Context, _ payments.ConnectedAccountInput) (*payments.ConnectedAccountResult, error) {
	return s.accountResult, s.accountErr
}

func (s *stubGateway) RefreshOnboardingLink(_ context.Context, _, _ string) (string, error) {
	s.refreshCalls++
	return s.refreshURL, nil
}

func (s *stubGateway) GetAccountReadiness(_ context.Context, _ string) (*payments.AccountReadiness, error) {
	return s.readiness, nil
}

func (s *stubGateway) CreateSharePurchaseCheckout(_ context.Context, _ payments.SharePurchaseCheckoutInput) (*payments.CheckoutResult, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func bareFarm() *models.Farm {
	return &models.Farm{ID: uuid.New(), OwnerID: uuid.New(), Name: "Green Pastures", IsActive: true}
}

func TestStartCreatesAccountAndPersistsID(t *testing.T) {
	farm := bareFarm()
	store := &stubFarmStore{farm: farm}
	gateway := &stubGateway{accountResult: &payments.ConnectedAccountResult{
		AccountID:     "acct_1",
		OnboardingURL: "https://connect.stripe.com/setup/x",
	}}
	svc, err := NewService(store, gateway, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	out, err := svc.Start(context.Background(), farm.OwnerID, "farmer@example.com", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if out.AccountID != "acct_1" || out.OnboardingURL == "" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if store.setAccountID == nil || *store.setAccountID != "acct_1" {
		t.Fatal("account id should be persisted on the farm")
	}
}

func TestStartPersistsAccountIDWhenLinkFails(t *testing.T) {
	farm := bareFarm()
	store := &stubFarmStore{farm: farm}
	gateway := &stubGateway{
		accountResult: &payments.ConnectedAccountResult{AccountID: "acct_1"},
		accountErr:    pkgerrors.New(pkgerrors.CodeDependency, "create onboarding link"),
	}
	svc, _ := NewService(store, gateway, testLogger())

	out, err := svc.Start(context.Background(), farm.OwnerID, "farmer@example.com", "")
	if err != nil {
		t.Fatalf("start should tolerate a failed link when the account exists: %v", err)
	}
	if store.setAccountID == nil || *store.setAccountID != "acct_1" {
		t.Fatal("account id must be persisted even without an onboarding link")
	}
	if out.OnboardingURL != "" {
		t.Fatal("no link should be returned when link creation failed")
	}
}

func TestStartResumesExistingAccount(t *testing.T) {
	farm := bareFarm()
	acct := "acct_existing"
	farm.StripeAccountID = &acct
	store := &stubFarmStore{farm: farm}
	gateway := &stubGateway{refreshURL: "https://connect.stripe.com/setup/y"}
	svc, _ := NewService(store, gateway, testLogger())

	out, err := svc.Start(context.Background(), farm.OwnerID, "farmer@example.com", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if out.AccountID != acct {
		t.Fatalf("account id = %q, want existing account", out.AccountID)
	}
	if gateway.refreshCalls != 1 {
		t.Fatal("existing account should only refresh the link")
	}
	if store.setAccountID != nil {
		t.Fatal("existing account id must not be overwritten")
	}
}

func TestRefreshLinkWithoutAccount(t *testing.T) {
	farm := bareFarm()
	svc, _ := NewService(&stubFarmStore{farm: farm}, &stubGateway{}, testLogger())

	_, err := svc.RefreshLink(context.Background(), farm.OwnerID, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSyncReadinessFlipsFlagOnce(t *testing.T) {
	farm := bareFarm()
	acct := "acct_1"
	farm.StripeAccountID = &acct
	store := &stubFarmStore{farm: farm, completeFlip: true}
	gateway := &stubGateway{readiness: &payments.AccountReadiness{
		AccountID:        acct,
		ChargesEnabled:   true,
		PayoutsEnabled:   true,
		DetailsSubmitted: true,
	}}
	svc, _ := NewService(store, gateway, testLogger())

	out, err := svc.SyncReadiness(context.Background(), farm.OwnerID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !out.OnboardingComplete {
		t.Fatal("expected onboarding complete")
	}
	if store.completeCalls != 1 {
		t.Fatalf("expected one flag write, got %d", store.completeCalls)
	}

	// A later sync sees the flag already set and skips the write.
	farm.StripeOnboardingComplete = true
	if _, err := svc.SyncReadiness(context.Background(), farm.OwnerID); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if store.completeCalls != 1 {
		t.Fatalf("flag must be written exactly once, got %d writes", store.completeCalls)
	}
}

func TestSyncReadinessRequiresAction(t *testing.T) {
	farm := bareFarm()
	acct := "acct_1"
	farm.StripeAccountID = &acct
	store := &stubFarmStore{farm: farm}
	gateway := &stubGateway{readiness: &payments.AccountReadiness{
		AccountID:      acct,
		ChargesEnabled: false,
		RequiresAction: true,
	}}
	svc, _ := NewService(store, gateway, testLogger())

	out, err := svc.SyncReadiness(context.Background(), farm.OwnerID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !out.RequiresAction || out.OnboardingComplete {
		t.Fatalf("unexpected status: %+v", out)
	}
	if store.completeCalls != 0 {
		t.Fatal("flag must not be written before charges are enabled")
	}
}
