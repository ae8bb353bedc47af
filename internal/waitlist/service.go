package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

type waitlistRepository interface {
	CreateSignup(ctx context.Context, entry *models.WaitlistEntry) error
	CreateBuyerEntry(ctx context.Context, entry *models.BuyerWaitlistEntry) error
	ListBuyerEntriesByFarm(ctx context.Context, farmID uuid.UUID) ([]models.BuyerWaitlistEntry, error)
	ListBuyerEntriesByUser(ctx context.Context, userID uuid.UUID) ([]models.BuyerWaitlistEntry, error)
}

type farmReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error)
}

type profileReader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// SignupInput is a pre-launch waitlist signup.
type SignupInput struct {
	Email    string
	ZipCode  string
	UserType string
}

// JoinInput registers a buyer's interest in a farm's next shares.
type JoinInput struct {
	FarmID         uuid.UUID
	DesiredPortion string
	AnimalType     string
	ZipCode        *string
	MaxDistance    *int
	AllowContact   bool
}

// Service covers both the pre-launch waitlist and buyer-farm matching.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*SignupDTO, error)
	Join(ctx context.Context, userID uuid.UUID, input JoinInput) (*BuyerEntryDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]BuyerEntryDTO, error)
	ListForFarm(ctx context.Context, actorID, farmID uuid.UUID) ([]FarmerEntryDTO, error)
}

type service struct {
	repo     waitlistRepository
	farms    farmReader
	profiles profileReader
}

// NewService builds a waitlist service with the provided repositories.
func NewService(repo waitlistRepository, farms farmReader, profiles profileReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("waitlist repository required")
	}
	if farms == nil {
		return nil, fmt.Errorf("farm reader required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile reader required")
	}
	return &service{repo: repo, farms: farms, profiles: profiles}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*SignupDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	zip := strings.TrimSpace(input.ZipCode)
	if zip == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zip code is required")
	}
	userType := strings.ToLower(strings.TrimSpace(input.UserType))
	if userType != "buyer" && userType != "farmer" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user type must be buyer or farmer")
	}

	entry := &models.WaitlistEntry{Email: email, ZipCode: zip, UserType: userType}
	if err := s.repo.CreateSignup(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record signup")
	}
	return signupFromModel(entry), nil
}

func (s *service) Join(ctx context.Context, userID uuid.UUID, input JoinInput) (*BuyerEntryDTO, error) {
	portion, err := enums.ParseSharePortion(input.DesiredPortion)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid portion")
	}
	animal, err := enums.ParseAnimalType(input.AnimalType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid animal type")
	}

	farm, err := s.farms.FindByID(ctx, input.FarmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if !farm.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}

	entry := &models.BuyerWaitlistEntry{
		UserID:         userID,
		FarmID:         farm.ID,
		DesiredPortion: portion,
		AnimalType:     animal,
		ZipCode:        input.ZipCode,
		MaxDistance:    input.MaxDistance,
		AllowContact:   input.AllowContact,
	}
	if err := s.repo.CreateBuyerEntry(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record interest")
	}
	return buyerEntryFromModel(entry), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]BuyerEntryDTO, error) {
	rows, err := s.repo.ListBuyerEntriesByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list entries")
	}
	out := make([]BuyerEntryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *buyerEntryFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListForFarm(ctx context.Context, actorID, farmID uuid.UUID) ([]FarmerEntryDTO, error) {
	farm, err := s.farms.FindByOwner(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if farm.ID != farmID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your farm")
	}

	rows, err := s.repo.ListBuyerEntriesByFarm(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list entries")
	}

	out := make([]FarmerEntryDTO, 0, len(rows))
	for i := range rows {
		entry := FarmerEntryDTO{
			ID:             rows[i].ID,
			DesiredPortion: rows[i].DesiredPortion,
			AnimalType:     rows[i].AnimalType,
			ZipArea:        maskZip(rows[i].ZipCode),
			AllowContact:   rows[i].AllowContact,
			CreatedAt:      rows[i].CreatedAt,
		}
		// Contact details only surface when the buyer opted in.
		if rows[i].AllowContact {
			if profile, err := s.profiles.FindByUserID(ctx, rows[i].UserID); err == nil {
				entry.ContactEmail = profile.Email
				entry.ContactName = profile.FullName
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
