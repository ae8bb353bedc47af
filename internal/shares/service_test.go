package shares

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

type stubShareRepo struct {
	share   *models.Share
	byFarm  []models.Share
	err     error
	created *CreateShareDTO
	deleted *uuid.UUID
}

func (s *stubShareRepo) Create(_ context.Context, dto CreateShareDTO) (*models.Share, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &dto
	share := dto.ToModel()
	share.ID = uuid.New()
	return share, nil
}

func (s *stubShareRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Share, error) {
	if s.share == nil || s.share.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.share
	return &cpy, nil
}

func (s *stubShareRepo) ListAvailableByFarm(_ context.Context, farmID uuid.UUID) ([]models.Share, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []models.Share{}
	for _, row := range s.byFarm {
		if row.FarmID == farmID && row.QuantityAvailable > 0 {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubShareRepo) ListByFarm(_ context.Context, farmID uuid.UUID) ([]models.Share, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []models.Share{}
	for _, row := range s.byFarm {
		if row.FarmID == farmID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubShareRepo) Update(_ context.Context, share *models.Share) error {
	if s.err != nil {
		return s.err
	}
	s.share = share
	return nil
}

func (s *stubShareRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = &id
	return nil
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

func readyFarm(ownerID uuid.UUID) *models.Farm {
	acct := "acct_1"
	return &models.Farm{
		ID:                       uuid.New(),
		OwnerID:                  ownerID,
		Name:                     "Green Pastures",
		IsActive:                 true,
		StripeAccountID:          &acct,
		StripeOnboardingComplete: true,
	}
}

func validCreateInput() CreateShareDTO {
	return CreateShareDTO{
		AnimalType:        enums.AnimalTypeBeef,
		Portion:           enums.SharePortionQuarter,
		PriceCents:        65000,
		QuantityAvailable: 3,
	}
}

func TestCreateShareRequiresPaymentsReady(t *testing.T) {
	ownerID := uuid.New()
	farm := readyFarm(ownerID)
	farm.StripeOnboardingComplete = false
	svc, _ := NewService(&stubShareRepo{}, &stubFarmReader{farm: farm})

	_, err := svc.Create(context.Background(), ownerID, validCreateInput())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCreateShareSuccess(t *testing.T) {
	ownerID := uuid.New()
	farm := readyFarm(ownerID)
	repo := &stubShareRepo{}
	svc, _ := NewService(repo, &stubFarmReader{farm: farm})

	dto, err := svc.Create(context.Background(), ownerID, validCreateInput())
	if err != nil {
		t.Fatalf("create share: %v", err)
	}
	if dto.FarmID != farm.ID {
		t.Fatal("share should bind to the owner's farm")
	}
	if repo.created == nil {
		t.Fatal("expected repo create call")
	}
}

func TestCreateShareValidation(t *testing.T) {
	ownerID := uuid.New()
	svc, _ := NewService(&stubShareRepo{}, &stubFarmReader{farm: readyFarm(ownerID)})

	cases := []struct {
		name  string
		mutat func(*CreateShareDTO)
	}{
		{name: "bad animal type", mutat: func(d *CreateShareDTO) { d.AnimalType = "goat" }},
		{name: "bad portion", mutat: func(d *CreateShareDTO) { d.Portion = "half" }},
		{name: "zero price", mutat: func(d *CreateShareDTO) { d.PriceCents = 0 }},
		{name: "negative quantity", mutat: func(d *CreateShareDTO) { d.QuantityAvailable = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutat(&input)
			_, err := svc.Create(context.Background(), ownerID, input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListPublicByFarmExcludesSoldOut(t *testing.T) {
	farm := readyFarm(uuid.New())
	repo := &stubShareRepo{byFarm: []models.Share{
		{ID: uuid.New(), FarmID: farm.ID, QuantityAvailable: 2},
		{ID: uuid.New(), FarmID: farm.ID, QuantityAvailable: 0},
	}}
	svc, _ := NewService(repo, &stubFarmReader{farm: farm})

	rows, err := svc.ListPublicByFarm(context.Background(), farm.ID)
	if err != nil {
		t.Fatalf("list shares: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected sold-out shares excluded, got %d rows", len(rows))
	}
}

func TestListPublicByFarmHidesInactiveFarm(t *testing.T) {
	farm := readyFarm(uuid.New())
	farm.IsActive = false
	svc, _ := NewService(&stubShareRepo{}, &stubFarmReader{farm: farm})

	_, err := svc.ListPublicByFarm(context.Background(), farm.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMineIncludesSoldOut(t *testing.T) {
	ownerID := uuid.New()
	farm := readyFarm(ownerID)
	repo := &stubShareRepo{byFarm: []models.Share{
		{ID: uuid.New(), FarmID: farm.ID, QuantityAvailable: 2},
		{ID: uuid.New(), FarmID: farm.ID, QuantityAvailable: 0},
	}}
	svc, _ := NewService(repo, &stubFarmReader{farm: farm})

	rows, err := svc.ListMine(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected sold-out shares included, got %d rows", len(rows))
	}
}

func TestUpdateShareRejectsForeignOwner(t *testing.T) {
	ownerID := uuid.New()
	farm := readyFarm(ownerID)
	otherFarmShare := &models.Share{ID: uuid.New(), FarmID: uuid.New(), QuantityAvailable: 1}
	svc, _ := NewService(&stubShareRepo{share: otherFarmShare}, &stubFarmReader{farm: farm})

	price := 100
	_, err := svc.Update(context.Background(), ownerID, otherFarmShare.ID, UpdateShareInput{PriceCents: &price})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteShare(t *testing.T) {
	ownerID := uuid.New()
	farm := readyFarm(ownerID)
	share := &models.Share{ID: uuid.New(), FarmID: farm.ID}
	repo := &stubShareRepo{share: share}
	svc, _ := NewService(repo, &stubFarmReader{farm: farm})

	if err := svc.Delete(context.Background(), ownerID, share.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deleted == nil || *repo.deleted != share.ID {
		t.Fatal("expected repo delete call")
	}
}
