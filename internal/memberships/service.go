package memberships

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/internal/payments"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

// membershipTerm is how long a paid membership runs before renewal.
const membershipTerm = 365 * 24 * time.Hour

type membershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	FindCurrent(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Membership, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Membership, error)
}

// ActivateInput records a paid membership from the checkout webhook.
type ActivateInput struct {
	UserID         uuid.UUID
	MembershipType enums.MembershipType
	PricePaidCents int
	SubscriptionID string
}

// Service opens subscription checkouts and records paid memberships.
type Service interface {
	StartCheckout(ctx context.Context, userID uuid.UUID, priceType, origin string) (*payments.CheckoutResult, error)
	Activate(ctx context.Context, input ActivateInput) (*MembershipDTO, error)
	Current(ctx context.Context, userID uuid.UUID) (*MembershipDTO, error)
}

type service struct {
	repo    membershipRepository
	gateway payments.Gateway
	now     func() time.Time
}

// NewService builds a membership service with the provided dependencies.
func NewService(repo membershipRepository, gateway payments.Gateway) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("membership repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payments gateway required")
	}
	return &service{repo: repo, gateway: gateway, now: time.Now}, nil
}

func (s *service) StartCheckout(ctx context.Context, userID uuid.UUID, priceType, origin string) (*payments.CheckoutResult, error) {
	tier, err := enums.ParseMembershipType(priceType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price type must be buyer or farmer")
	}
	return s.gateway.CreateSubscriptionCheckout(ctx, payments.SubscriptionCheckoutInput{
		UserID:    userID,
		PriceType: tier,
		Origin:    origin,
	})
}

func (s *service) Activate(ctx context.Context, input ActivateInput) (*MembershipDTO, error) {
	if !input.MembershipType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid membership type")
	}

	// Redelivered webhooks must not stack memberships.
	if input.SubscriptionID != "" {
		existing, err := s.repo.FindBySubscriptionID(ctx, input.SubscriptionID)
		if err == nil {
			return FromModel(existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check subscription")
		}
	}

	now := s.now()
	membership := &models.Membership{
		UserID:         input.UserID,
		MembershipType: input.MembershipType,
		PricePaidCents: input.PricePaidCents,
		StartsAt:       now,
		ExpiresAt:      now.Add(membershipTerm),
		IsActive:       true,
	}
	if input.SubscriptionID != "" {
		membership.StripeSubscriptionID = &input.SubscriptionID
	}
	if err := s.repo.Create(ctx, membership); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record membership")
	}
	return FromModel(membership), nil
}

func (s *service) Current(ctx context.Context, userID uuid.UUID) (*MembershipDTO, error) {
	membership, err := s.repo.FindCurrent(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active membership")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return FromModel(membership), nil
}
