package purchases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/internal/payments"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

type stubPurchaseRepo struct {
	purchase *models.SharePurchase
	byBuyer  []models.SharePurchase
	byFarm   []models.SharePurchase
	created  *models.SharePurchase
	updated  *models.SharePurchase
}

func (s *stubPurchaseRepo) Create(_ context.Context, purchase *models.SharePurchase) error {
	purchase.ID = uuid.New()
	s.created = purchase
	return nil
}

func (s *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*models.SharePurchase, error) {
	if s.purchase == nil || s.purchase.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.purchase
	return &cpy, nil
}

func (s *stubPurchaseRepo) ListByBuyer(_ context.Context, _ uuid.UUID) ([]models.SharePurchase, error) {
	return s.byBuyer, nil
}

func (s *stubPurchaseRepo) ListByFarm(_ context.Context, _ uuid.UUID) ([]models.SharePurchase, error) {
	return s.byFarm, nil
}

func (s *stubPurchaseRepo) Update(_ context.Context, purchase *models.SharePurchase) error {
	s.updated = purchase
	return nil
}

type stubShareReader struct {
	share *models.Share
}

func (s *stubShareReader) FindByID(_ context.Context, id uuid.UUID) (*models.Share, error) {
	if s.share == nil || s.share.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.share
	return &cpy, nil
}

type stubFarmReader struct {
	farm *models.Farm
}

func (s *stubFarmReader) FindByID(_ context.Context, id uuid.UUID) (*models.Farm, error) {
	if s.farm == nil || s.farm.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.farm
	return &cpy, nil
}

func (s *stubFarmReader) FindByOwner(_ context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	if s.farm == nil || s.farm.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.farm
	return &cpy, nil
}

type stubGateway struct {
	checkoutInput *payments.SharePurchaseCheckoutInput
	checkoutErr   error
}

func (s *stubGateway) CreateSubscriptionCheckout(_ context.Context, _ payments.SubscriptionCheckoutInput) (*payments.CheckoutResult, error) {
	return nil, nil
}

func (s *stubGateway) CreateConnectedAccount(_ context.Context, _ payments.ConnectedAccountInput) (*payments.ConnectedAccountResult, error) {
	return nil, nil
}

func (s *stubGateway) RefreshOnboardingLink(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (s *stubGateway) GetAccountReadiness(_ context.Context, _ string) (*payments.AccountReadiness, error) {
	return nil, nil
}

func (s *stubGateway) CreateSharePurchaseCheckout(_ context.Context, in payments.SharePurchaseCheckoutInput) (*payments.CheckoutResult, error) {
	if s.checkoutErr != nil {
		return nil, s.checkoutErr
	}
	s.checkoutInput = &in
	return &payments.CheckoutResult{SessionID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func fixtures() (*models.Farm, *models.Share) {
	acct := "acct_1"
	farm := &models.Farm{
		ID:                       uuid.New(),
		OwnerID:                  uuid.New(),
		Name:                     "Green Pastures",
		IsActive:                 true,
		StripeAccountID:          &acct,
		StripeOnboardingComplete: true,
	}
	share := &models.Share{
		ID:                uuid.New(),
		FarmID:            farm.ID,
		AnimalType:        enums.AnimalTypeBeef,
		Portion:           enums.SharePortionQuarter,
		PriceCents:        65000,
		QuantityAvailable: 2,
	}
	return farm, share
}

func TestStartCheckoutCreatesPendingPurchase(t *testing.T) {
	farm, share := fixtures()
	repo := &stubPurchaseRepo{}
	gateway := &stubGateway{}
	svc, err := NewService(repo, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, gateway)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	buyerID := uuid.New()
	out, err := svc.StartCheckout(context.Background(), buyerID, StartCheckoutInput{
		ShareID:        share.ID,
		Origin:         "https://farmdirectmeat.com",
		IdempotencyKey: "idem-1",
	})
	if err != nil {
		t.Fatalf("start checkout: %v", err)
	}
	if out.SessionID != "cs_test_1" || out.CheckoutURL == "" {
		t.Fatalf("unexpected checkout result: %+v", out)
	}

	if repo.created == nil {
		t.Fatal("expected pending purchase row")
	}
	if repo.created.Status != enums.PurchaseStatusPending {
		t.Fatalf("expected pending status, got %s", repo.created.Status)
	}
	if repo.created.PricePaidCents != share.PriceCents {
		t.Fatalf("price should be captured at purchase time, got %d", repo.created.PricePaidCents)
	}
	if repo.created.StripeSessionID == nil || *repo.created.StripeSessionID != "cs_test_1" {
		t.Fatal("purchase should be keyed by checkout session")
	}

	in := gateway.checkoutInput
	if in == nil {
		t.Fatal("expected gateway call")
	}
	if in.DestinationAccount != "acct_1" {
		t.Fatalf("destination account = %q", in.DestinationAccount)
	}
	if got := in.Price.StringFixed(2); got != "650.00" {
		t.Fatalf("price = %s, want 650.00", got)
	}
	if in.BuyerID != buyerID || in.FarmID != farm.ID || in.ShareID != share.ID {
		t.Fatal("checkout metadata ids mismatch")
	}
}

func TestStartCheckoutSoldOut(t *testing.T) {
	farm, share := fixtures()
	share.QuantityAvailable = 0
	svc, _ := NewService(&stubPurchaseRepo{}, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, &stubGateway{})

	_, err := svc.StartCheckout(context.Background(), uuid.New(), StartCheckoutInput{ShareID: share.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestStartCheckoutFarmNotReady(t *testing.T) {
	farm, share := fixtures()
	farm.StripeOnboardingComplete = false
	svc, _ := NewService(&stubPurchaseRepo{}, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, &stubGateway{})

	_, err := svc.StartCheckout(context.Background(), uuid.New(), StartCheckoutInput{ShareID: share.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestStartCheckoutInactiveFarmHidden(t *testing.T) {
	farm, share := fixtures()
	farm.IsActive = false
	svc, _ := NewService(&stubPurchaseRepo{}, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, &stubGateway{})

	_, err := svc.StartCheckout(context.Background(), uuid.New(), StartCheckoutInput{ShareID: share.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	farm, share := fixtures()
	purchase := &models.SharePurchase{
		ID:      uuid.New(),
		BuyerID: uuid.New(),
		ShareID: share.ID,
		FarmID:  farm.ID,
		Status:  enums.PurchaseStatusPending,
	}
	repo := &stubPurchaseRepo{purchase: purchase}
	svc, _ := NewService(repo, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, &stubGateway{})

	_, err := svc.Complete(context.Background(), farm.OwnerID, purchase.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	purchase.Status = enums.PurchaseStatusConfirmed
	dto, err := svc.Complete(context.Background(), farm.OwnerID, purchase.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if dto.Status != enums.PurchaseStatusCompleted {
		t.Fatalf("status = %s, want completed", dto.Status)
	}
}

func TestCompleteForeignFarm(t *testing.T) {
	farm, share := fixtures()
	purchase := &models.SharePurchase{
		ID:     uuid.New(),
		FarmID: uuid.New(), // someone else's farm
		Status: enums.PurchaseStatusConfirmed,
	}
	svc, _ := NewService(&stubPurchaseRepo{purchase: purchase}, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, &stubGateway{})

	_, err := svc.Complete(context.Background(), farm.OwnerID, purchase.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCancelByBuyer(t *testing.T) {
	farm, share := fixtures()
	buyerID := uuid.New()
	purchase := &models.SharePurchase{
		ID:      uuid.New(),
		BuyerID: buyerID,
		FarmID:  farm.ID,
		Status:  enums.PurchaseStatusPending,
	}
	repo := &stubPurchaseRepo{purchase: purchase}
	svc, _ := NewService(repo, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, &stubGateway{})

	dto, err := svc.Cancel(context.Background(), buyerID, purchase.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if dto.Status != enums.PurchaseStatusCancelled {
		t.Fatalf("status = %s, want cancelled", dto.Status)
	}

	// Terminal states stay put.
	purchase.Status = enums.PurchaseStatusCompleted
	repo.purchase = purchase
	_, err = svc.Cancel(context.Background(), buyerID, purchase.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCancelForeignBuyer(t *testing.T) {
	farm, share := fixtures()
	purchase := &models.SharePurchase{
		ID:      uuid.New(),
		BuyerID: uuid.New(),
		FarmID:  farm.ID,
		Status:  enums.PurchaseStatusPending,
	}
	svc, _ := NewService(&stubPurchaseRepo{purchase: purchase}, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, &stubGateway{})

	_, err := svc.Cancel(context.Background(), uuid.New(), purchase.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListForFarmer(t *testing.T) {
	farm, share := fixtures()
	repo := &stubPurchaseRepo{byFarm: []models.SharePurchase{
		{ID: uuid.New(), FarmID: farm.ID, Status: enums.PurchaseStatusConfirmed},
	}}
	svc, _ := NewService(repo, &stubShareReader{share: share}, &stubFarmReader{farm: farm}, &stubGateway{})

	rows, err := svc.ListForFarmer(context.Background(), farm.OwnerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 purchase, got %d", len(rows))
	}
}
