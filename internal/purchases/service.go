package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/internal/payments"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

type purchaseRepository interface {
	Create(ctx context.Context, purchase *models.SharePurchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SharePurchase, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.SharePurchase, error)
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.SharePurchase, error)
	Update(ctx context.Context, purchase *models.SharePurchase) error
}

type shareReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Share, error)
}

type farmReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error)
}

// StartCheckoutInput opens a hosted checkout for one unit of a share.
type StartCheckoutInput struct {
	ShareID        uuid.UUID
	Origin         string
	IdempotencyKey string
}

// Service drives the purchase lifecycle from checkout to fulfilment.
type Service interface {
	StartCheckout(ctx context.Context, buyerID uuid.UUID, input StartCheckoutInput) (*CheckoutDTO, error)
	Complete(ctx context.Context, actorID, purchaseID uuid.UUID) (*PurchaseDTO, error)
	Cancel(ctx context.Context, buyerID, purchaseID uuid.UUID) (*PurchaseDTO, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]PurchaseDTO, error)
	ListForFarmer(ctx context.Context, actorID uuid.UUID) ([]PurchaseDTO, error)
}

type service struct {
	repo    purchaseRepository
	shares  shareReader
	farms   farmReader
	gateway payments.Gateway
}

// NewService builds a purchase service with the provided dependencies.
func NewService(repo purchaseRepository, shares shareReader, farms farmReader, gateway payments.Gateway) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if shares == nil {
		return nil, fmt.Errorf("share reader required")
	}
	if farms == nil {
		return nil, fmt.Errorf("farm reader required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payments gateway required")
	}
	return &service{repo: repo, shares: shares, farms: farms, gateway: gateway}, nil
}

func (s *service) StartCheckout(ctx context.Context, buyerID uuid.UUID, input StartCheckoutInput) (*CheckoutDTO, error) {
	share, err := s.shares.FindByID(ctx, input.ShareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "share not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load share")
	}
	if share.QuantityAvailable <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "share is sold out")
	}

	farm, err := s.farms.FindByID(ctx, share.FarmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if !farm.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}
	if !farm.PaymentsReady() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "farm cannot accept payments yet")
	}

	weight := ""
	if share.WeightEstimate != nil {
		weight = *share.WeightEstimate
	}
	checkout, err := s.gateway.CreateSharePurchaseCheckout(ctx, payments.SharePurchaseCheckoutInput{
		ShareID:            share.ID,
		FarmID:             farm.ID,
		BuyerID:            buyerID,
		FarmName:           farm.Name,
		AnimalType:         share.AnimalType,
		Portion:            share.Portion,
		WeightEstimate:     weight,
		Price:              decimal.New(int64(share.PriceCents), -2),
		DestinationAccount: *farm.StripeAccountID,
		Origin:             input.Origin,
		IdempotencyKey:     input.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	// Pending row anchors the webhook's confirmation, keyed by session id.
	sessionID := checkout.SessionID
	purchase := &models.SharePurchase{
		BuyerID:         buyerID,
		ShareID:         share.ID,
		FarmID:          farm.ID,
		Portion:         share.Portion,
		PricePaidCents:  share.PriceCents,
		Status:          enums.PurchaseStatusPending,
		StripeSessionID: &sessionID,
	}
	if err := s.repo.Create(ctx, purchase); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record pending purchase")
	}

	return &CheckoutDTO{
		PurchaseID:  purchase.ID,
		SessionID:   checkout.SessionID,
		CheckoutURL: checkout.URL,
	}, nil
}

func (s *service) Complete(ctx context.Context, actorID, purchaseID uuid.UUID) (*PurchaseDTO, error) {
	purchase, err := s.loadPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	farm, err := s.farms.FindByOwner(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your purchase")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if purchase.FarmID != farm.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your purchase")
	}

	return s.transition(ctx, purchase, enums.PurchaseStatusCompleted)
}

func (s *service) Cancel(ctx context.Context, buyerID, purchaseID uuid.UUID) (*PurchaseDTO, error) {
	purchase, err := s.loadPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your purchase")
	}
	return s.transition(ctx, purchase, enums.PurchaseStatusCancelled)
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]PurchaseDTO, error) {
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	return toDTOs(rows), nil
}

func (s *service) ListForFarmer(ctx context.Context, actorID uuid.UUID) ([]PurchaseDTO, error) {
	farm, err := s.farms.FindByOwner(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	rows, err := s.repo.ListByFarm(ctx, farm.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	return toDTOs(rows), nil
}

func (s *service) loadPurchase(ctx context.Context, purchaseID uuid.UUID) (*models.SharePurchase, error) {
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	return purchase, nil
}

func (s *service) transition(ctx context.Context, purchase *models.SharePurchase, next enums.PurchaseStatus) (*PurchaseDTO, error) {
	if !purchase.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("purchase cannot move from %s to %s", purchase.Status, next),
		)
	}
	purchase.Status = next
	if err := s.repo.Update(ctx, purchase); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase")
	}
	return FromModel(purchase), nil
}
