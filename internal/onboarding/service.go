// Package onboarding drives a farmer's Stripe Express account lifecycle:
// account creation, onboarding link refresh, and readiness checks.
package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/internal/payments"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
)

type farmStore interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error)
	SetStripeAccountID(ctx context.Context, farmID uuid.UUID, accountID string) error
	MarkOnboardingComplete(ctx context.Context, farmID uuid.UUID) (bool, error)
}

// StartResult reports the connected account and where to send the farmer next.
type StartResult struct {
	AccountID     string `json:"account_id"`
	OnboardingURL string `json:"onboarding_url,omitempty"`
}

// StatusResult is the readiness snapshot surfaced to the dashboard.
type StatusResult struct {
	AccountID          string `json:"account_id"`
	ChargesEnabled     bool   `json:"charges_enabled"`
	PayoutsEnabled     bool   `json:"payouts_enabled"`
	DetailsSubmitted   bool   `json:"details_submitted"`
	RequiresAction     bool   `json:"requires_action"`
	OnboardingComplete bool   `json:"onboarding_complete"`
}

// Service manages payout onboarding for farm owners.
type Service interface {
	Start(ctx context.Context, ownerID uuid.UUID, email, origin string) (*StartResult, error)
	RefreshLink(ctx context.Context, ownerID uuid.UUID, origin string) (string, error)
	SyncReadiness(ctx context.Context, ownerID uuid.UUID) (*StatusResult, error)
}

type service struct {
	farms   farmStore
	gateway payments.Gateway
	logg    *logger.Logger
}

// NewService builds an onboarding service with the provided dependencies.
func NewService(farms farmStore, gateway payments.Gateway, logg *logger.Logger) (Service, error) {
	if farms == nil {
		return nil, fmt.Errorf("farm store required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payments gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{farms: farms, gateway: gateway, logg: logg}, nil
}

func (s *service) Start(ctx context.Context, ownerID uuid.UUID, email, origin string) (*StartResult, error) {
	farm, err := s.ownedFarm(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Resuming: the farm already holds an account, just mint a fresh link.
	if farm.StripeAccountID != nil && *farm.StripeAccountID != "" {
		url, err := s.gateway.RefreshOnboardingLink(ctx, *farm.StripeAccountID, origin)
		if err != nil {
			return nil, err
		}
		return &StartResult{AccountID: *farm.StripeAccountID, OnboardingURL: url}, nil
	}

	result, createErr := s.gateway.CreateConnectedAccount(ctx, payments.ConnectedAccountInput{
		UserID:   ownerID,
		Email:    email,
		FarmName: farm.Name,
		Origin:   origin,
	})
	if result == nil || result.AccountID == "" {
		return nil, createErr
	}

	// The account id must survive even when the link call failed, otherwise a
	// retry would strand an orphaned Stripe account.
	if err := s.farms.SetStripeAccountID(ctx, farm.ID, result.AccountID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist stripe account")
	}
	if createErr != nil {
		s.logg.Warn(
			s.logg.WithField(ctx, "stripe_account_id", result.AccountID),
			"connected account created without onboarding link",
		)
	}

	return &StartResult{AccountID: result.AccountID, OnboardingURL: result.OnboardingURL}, nil
}

func (s *service) RefreshLink(ctx context.Context, ownerID uuid.UUID, origin string) (string, error) {
	farm, err := s.ownedFarm(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if farm.StripeAccountID == nil || *farm.StripeAccountID == "" {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "payment onboarding has not started")
	}
	return s.gateway.RefreshOnboardingLink(ctx, *farm.StripeAccountID, origin)
}

func (s *service) SyncReadiness(ctx context.Context, ownerID uuid.UUID) (*StatusResult, error) {
	farm, err := s.ownedFarm(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if farm.StripeAccountID == nil || *farm.StripeAccountID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment onboarding has not started")
	}

	readiness, err := s.gateway.GetAccountReadiness(ctx, *farm.StripeAccountID)
	if err != nil {
		return nil, err
	}

	complete := farm.StripeOnboardingComplete
	if readiness.ChargesEnabled && !complete {
		flipped, err := s.farms.MarkOnboardingComplete(ctx, farm.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark onboarding complete")
		}
		if flipped {
			s.logg.Info(s.logg.WithFarmID(ctx, farm.ID.String()), "payment onboarding complete")
		}
		complete = true
	}

	return &StatusResult{
		AccountID:          readiness.AccountID,
		ChargesEnabled:     readiness.ChargesEnabled,
		PayoutsEnabled:     readiness.PayoutsEnabled,
		DetailsSubmitted:   readiness.DetailsSubmitted,
		RequiresAction:     readiness.RequiresAction,
		OnboardingComplete: complete,
	}, nil
}

func (s *service) ownedFarm(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	farm, err := s.farms.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return farm, nil
}
