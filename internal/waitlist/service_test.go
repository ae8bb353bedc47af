package waitlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

type stubWaitlistRepo struct {
	signup      *models.WaitlistEntry
	buyerEntry  *models.BuyerWaitlistEntry
	byFarm      []models.BuyerWaitlistEntry
	byUser      []models.BuyerWaitlistEntry
	listCalled  bool
	createError error
}

func (s *stubWaitlistRepo) CreateSignup(_ context.Context, entry *models.WaitlistEntry) error {
	if s.createError != nil {
		return s.createError
	}
	entry.ID = uuid.New()
	s.signup = entry
	return nil
}

func (s *stubWaitlistRepo) CreateBuyerEntry(_ context.Context, entry *models.BuyerWaitlistEntry) error {
	entry.ID = uuid.New()
	s.buyerEntry = entry
	return nil
}

func (s *stubWaitlistRepo) ListBuyerEntriesByFarm(_ context.Context, _ uuid.UUID) ([]models.BuyerWaitlistEntry, error) {
	s.listCalled = true
	return s.byFarm, nil
}

func (s *stubWaitlistRepo) ListBuyerEntriesByUser(_ context.Context, _ uuid.UUID) ([]models.BuyerWaitlistEntry, error) {
	return s.byUser, nil
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

type stubProfileReader struct {
	profiles map[uuid.UUID]*models.Profile
}

func (s *stubProfileReader) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	if p, ok := s.profiles[userID]; ok {
		cpy := *p
		return &cpy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func activeFarm() *models.Farm {
	return &models.Farm{ID: uuid.New(), OwnerID: uuid.New(), Name: "Green Pastures", IsActive: true}
}

func TestSignupNormalizesAndValidates(t *testing.T) {
	repo := &stubWaitlistRepo{}
	svc, err := NewService(repo, &stubFarmReader{}, &stubProfileReader{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	out, err := svc.Signup(context.Background(), SignupInput{
		Email:    "  Buyer@Example.COM ",
		ZipCode:  "64101",
		UserType: "Buyer",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if out.Email != "buyer@example.com" {
		t.Fatalf("email = %q, want lowercased trimmed", out.Email)
	}

	_, err = svc.Signup(context.Background(), SignupInput{Email: "x@y.com", ZipCode: "64101", UserType: "vendor"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for user type, got %v", err)
	}
}

func TestJoinValidatesFarm(t *testing.T) {
	farm := activeFarm()
	repo := &stubWaitlistRepo{}
	svc, _ := NewService(repo, &stubFarmReader{farm: farm}, &stubProfileReader{})

	userID := uuid.New()
	out, err := svc.Join(context.Background(), userID, JoinInput{
		FarmID:         farm.ID,
		DesiredPortion: "1/4",
		AnimalType:     "beef",
		AllowContact:   true,
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if out.FarmID != farm.ID || out.DesiredPortion != enums.SharePortionQuarter {
		t.Fatalf("unexpected entry: %+v", out)
	}

	_, err = svc.Join(context.Background(), userID, JoinInput{
		FarmID:         uuid.New(),
		DesiredPortion: "1/4",
		AnimalType:     "beef",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown farm, got %v", err)
	}
}

func TestJoinRejectsBadEnums(t *testing.T) {
	farm := activeFarm()
	svc, _ := NewService(&stubWaitlistRepo{}, &stubFarmReader{farm: farm}, &stubProfileReader{})

	_, err := svc.Join(context.Background(), uuid.New(), JoinInput{
		FarmID:         farm.ID,
		DesiredPortion: "half",
		AnimalType:     "beef",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListForFarmMasksZipAndContact(t *testing.T) {
	farm := activeFarm()
	optedIn := uuid.New()
	optedOut := uuid.New()
	zipA := "64101"
	zipB := "64030"
	email := "buyer@example.com"
	name := "Casey Buyer"

	repo := &stubWaitlistRepo{byFarm: []models.BuyerWaitlistEntry{
		{ID: uuid.New(), UserID: optedIn, FarmID: farm.ID, DesiredPortion: enums.SharePortionQuarter, AnimalType: enums.AnimalTypeBeef, ZipCode: &zipA, AllowContact: true},
		{ID: uuid.New(), UserID: optedOut, FarmID: farm.ID, DesiredPortion: enums.SharePortionHalf, AnimalType: enums.AnimalTypePork, ZipCode: &zipB, AllowContact: false},
	}}
	profiles := &stubProfileReader{profiles: map[uuid.UUID]*models.Profile{
		optedIn:  {UserID: optedIn, Email: &email, FullName: &name},
		optedOut: {UserID: optedOut, Email: &email},
	}}
	svc, _ := NewService(repo, &stubFarmReader{farm: farm}, profiles)

	rows, err := svc.ListForFarm(context.Background(), farm.OwnerID, farm.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(rows))
	}

	if rows[0].ZipArea == nil || *rows[0].ZipArea != "641xx" {
		t.Fatalf("zip must be masked to its area, got %v", rows[0].ZipArea)
	}
	if rows[0].ContactEmail == nil || *rows[0].ContactEmail != email {
		t.Fatal("opted-in buyer contact should surface")
	}

	if rows[1].ZipArea == nil || *rows[1].ZipArea != "640xx" {
		t.Fatalf("zip must be masked to its area, got %v", rows[1].ZipArea)
	}
	if rows[1].ContactEmail != nil || rows[1].ContactName != nil {
		t.Fatal("opted-out buyer contact must stay hidden")
	}
}

func TestListForFarmOwnershipCheck(t *testing.T) {
	farm := activeFarm()
	repo := &stubWaitlistRepo{}
	svc, _ := NewService(repo, &stubFarmReader{farm: farm}, &stubProfileReader{})

	// Owner asking about a different farm id.
	_, err := svc.ListForFarm(context.Background(), farm.OwnerID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.listCalled {
		t.Fatal("no query may run before the ownership check passes")
	}
}
