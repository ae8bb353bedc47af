package shares

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

type shareRepository interface {
	Create(ctx context.Context, dto CreateShareDTO) (*models.Share, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Share, error)
	ListAvailableByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Share, error)
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Share, error)
	Update(ctx context.Context, share *models.Share) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type farmReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error)
}

// UpdateShareInput captures the mutable share fields.
type UpdateShareInput struct {
	PriceCents        *int
	WeightEstimate    *string
	QuantityAvailable *int
	NextAvailableDate *time.Time
}

// Service exposes share listing operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateShareDTO) (*ShareDTO, error)
	ListPublicByFarm(ctx context.Context, farmID uuid.UUID) ([]ShareDTO, error)
	ListMine(ctx context.Context, actorID uuid.UUID) ([]ShareDTO, error)
	Update(ctx context.Context, actorID, shareID uuid.UUID, input UpdateShareInput) (*ShareDTO, error)
	Delete(ctx context.Context, actorID, shareID uuid.UUID) error
}

type service struct {
	repo  shareRepository
	farms farmReader
}

// NewService builds a share service with the provided repositories.
func NewService(repo shareRepository, farms farmReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("share repository required")
	}
	if farms == nil {
		return nil, fmt.Errorf("farm reader required")
	}
	return &service{repo: repo, farms: farms}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateShareDTO) (*ShareDTO, error) {
	if !input.AnimalType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid animal type")
	}
	if !input.Portion.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid portion")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.QuantityAvailable < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	farm, err := s.ownedFarm(ctx, actorID)
	if err != nil {
		return nil, err
	}
	// Listing before payout onboarding would produce unsellable inventory.
	if !farm.PaymentsReady() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "complete payment onboarding before listing shares")
	}

	input.FarmID = farm.ID
	share, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create share")
	}
	return FromModel(share), nil
}

func (s *service) ListPublicByFarm(ctx context.Context, farmID uuid.UUID) ([]ShareDTO, error) {
	farm, err := s.farms.FindByID(ctx, farmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if !farm.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}

	rows, err := s.repo.ListAvailableByFarm(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shares")
	}
	return toDTOs(rows), nil
}

func (s *service) ListMine(ctx context.Context, actorID uuid.UUID) ([]ShareDTO, error) {
	farm, err := s.ownedFarm(ctx, actorID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByFarm(ctx, farm.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shares")
	}
	return toDTOs(rows), nil
}

func (s *service) Update(ctx context.Context, actorID, shareID uuid.UUID, input UpdateShareInput) (*ShareDTO, error) {
	share, err := s.ownedShare(ctx, actorID, shareID)
	if err != nil {
		return nil, err
	}

	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		share.PriceCents = *input.PriceCents
	}
	if input.WeightEstimate != nil {
		cpy := *input.WeightEstimate
		share.WeightEstimate = &cpy
	}
	if input.QuantityAvailable != nil {
		if *input.QuantityAvailable < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		share.QuantityAvailable = *input.QuantityAvailable
	}
	if input.NextAvailableDate != nil {
		cpy := *input.NextAvailableDate
		share.NextAvailableDate = &cpy
	}

	if err := s.repo.Update(ctx, share); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update share")
	}
	return FromModel(share), nil
}

func (s *service) Delete(ctx context.Context, actorID, shareID uuid.UUID) error {
	if _, err := s.ownedShare(ctx, actorID, shareID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, shareID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete share")
	}
	return nil
}

func (s *service) ownedFarm(ctx context.Context, actorID uuid.UUID) (*models.Farm, error) {
	farm, err := s.farms.FindByOwner(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return farm, nil
}

func (s *service) ownedShare(ctx context.Context, actorID, shareID uuid.UUID) (*models.Share, error) {
	share, err := s.repo.FindByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "share not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load share")
	}
	farm, err := s.ownedFarm(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if share.FarmID != farm.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your share")
	}
	return share, nil
}

func toDTOs(rows []models.Share) []ShareDTO {
	out := make([]ShareDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
