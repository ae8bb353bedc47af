package farms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
	"github.com/farmdirectmeat/farmshare-backend/pkg/pagination"
)

type farmRepository interface {
	Create(ctx context.Context, dto CreateFarmDTO) (*models.Farm, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error)
	ListActive(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Farm, error)
	Update(ctx context.Context, farm *models.Farm) error
}

// UpdateFarmInput captures the allowed farm fields for mutation.
type UpdateFarmInput struct {
	Name        *string
	Description *string
	Location    *string
	ZipCode     *string
	Latitude    *float64
	Longitude   *float64
	ImageURL    *string
	IsGrassFed  *bool
	IsOrganic   *bool
	IsActive    *bool
}

// BrowsePage is one page of public farms.
type BrowsePage struct {
	Farms      []PublicFarmDTO `json:"farms"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// Service exposes farm operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateFarmDTO) (*FarmDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*FarmDTO, error)
	GetPublicByID(ctx context.Context, id uuid.UUID) (*PublicFarmDTO, error)
	GetMine(ctx context.Context, ownerID uuid.UUID) (*FarmDTO, error)
	Browse(ctx context.Context, params pagination.Params) (*BrowsePage, error)
	Update(ctx context.Context, actorID, farmID uuid.UUID, input UpdateFarmInput) (*FarmDTO, error)
}

type service struct {
	repo farmRepository
}

// NewService builds a farm service with the provided repository.
func NewService(repo farmRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("farm repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateFarmDTO) (*FarmDTO, error) {
	input.OwnerID = ownerID
	input.Name = strings.TrimSpace(input.Name)
	input.Location = strings.TrimSpace(input.Location)
	input.ZipCode = strings.TrimSpace(input.ZipCode)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm name is required")
	}
	if input.Location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if input.ZipCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zip code is required")
	}

	// One farm per owner keeps the dashboard and payout account unambiguous.
	if _, err := s.repo.FindByOwner(ctx, ownerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "farm already exists for this account")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing farm")
	}

	farm, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farm")
	}
	return FromModel(farm), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*FarmDTO, error) {
	farm, err := s.loadFarm(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(farm), nil
}

func (s *service) GetPublicByID(ctx context.Context, id uuid.UUID) (*PublicFarmDTO, error) {
	farm, err := s.loadFarm(ctx, id)
	if err != nil {
		return nil, err
	}
	if !farm.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}
	return PublicFromModel(farm), nil
}

func (s *service) GetMine(ctx context.Context, ownerID uuid.UUID) (*FarmDTO, error) {
	farm, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return FromModel(farm), nil
}

func (s *service) Browse(ctx context.Context, params pagination.Params) (*BrowsePage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListActive(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farms")
	}

	page := &BrowsePage{Farms: make([]PublicFarmDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			break
		}
		page.Farms = append(page.Farms, *PublicFromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) Update(ctx context.Context, actorID, farmID uuid.UUID, input UpdateFarmInput) (*FarmDTO, error) {
	farm, err := s.loadFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if farm.OwnerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your farm")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm name is required")
		}
		farm.Name = name
	}
	if input.Description != nil {
		farm.Description = cloneStringPtr(input.Description)
	}
	if input.Location != nil {
		farm.Location = strings.TrimSpace(*input.Location)
	}
	if input.ZipCode != nil {
		farm.ZipCode = strings.TrimSpace(*input.ZipCode)
	}
	if input.Latitude != nil {
		farm.Latitude = cloneFloatPtr(input.Latitude)
	}
	if input.Longitude != nil {
		farm.Longitude = cloneFloatPtr(input.Longitude)
	}
	if input.ImageURL != nil {
		farm.ImageURL = cloneStringPtr(input.ImageURL)
	}
	if input.IsGrassFed != nil {
		farm.IsGrassFed = *input.IsGrassFed
	}
	if input.IsOrganic != nil {
		farm.IsOrganic = *input.IsOrganic
	}
	if input.IsActive != nil {
		farm.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, farm); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update farm")
	}
	return FromModel(farm), nil
}

func (s *service) loadFarm(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return farm, nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}

func cloneFloatPtr(value *float64) *float64 {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
