package waitlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// SignupDTO is a pre-launch waitlist signup.
type SignupDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	ZipCode   string    `json:"zip_code"`
	UserType  string    `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

// BuyerEntryDTO is the buyer's own view of their waitlist entry.
type BuyerEntryDTO struct {
	ID             uuid.UUID          `json:"id"`
	FarmID         uuid.UUID          `json:"farm_id"`
	DesiredPortion enums.SharePortion `json:"desired_portion"`
	AnimalType     enums.AnimalType   `json:"animal_type"`
	ZipCode        *string            `json:"zip_code,omitempty"`
	MaxDistance    *int               `json:"max_distance,omitempty"`
	AllowContact   bool               `json:"allow_contact"`
	CreatedAt      time.Time          `json:"created_at"`
}

// FarmerEntryDTO is the privacy-filtered view a farmer gets of interested
// buyers: the zip is masked to its 3-digit area and contact details appear
// only when the buyer opted in.
type FarmerEntryDTO struct {
	ID             uuid.UUID          `json:"id"`
	DesiredPortion enums.SharePortion `json:"desired_portion"`
	AnimalType     enums.AnimalType   `json:"animal_type"`
	ZipArea        *string            `json:"zip_area,omitempty"`
	AllowContact   bool               `json:"allow_contact"`
	ContactEmail   *string            `json:"contact_email,omitempty"`
	ContactName    *string            `json:"contact_name,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

func signupFromModel(m *models.WaitlistEntry) *SignupDTO {
	return &SignupDTO{
		ID:        m.ID,
		Email:     m.Email,
		ZipCode:   m.ZipCode,
		UserType:  m.UserType,
		CreatedAt: m.CreatedAt,
	}
}

func buyerEntryFromModel(m *models.BuyerWaitlistEntry) *BuyerEntryDTO {
	return &BuyerEntryDTO{
		ID:             m.ID,
		FarmID:         m.FarmID,
		DesiredPortion: m.DesiredPortion,
		AnimalType:     m.AnimalType,
		ZipCode:        m.ZipCode,
		MaxDistance:    m.MaxDistance,
		AllowContact:   m.AllowContact,
		CreatedAt:      m.CreatedAt,
	}
}

// maskZip keeps the first three digits of a US zip and blanks the rest.
func maskZip(zip *string) *string {
	if zip == nil {
		return nil
	}
	trimmed := *zip
	if len(trimmed) < 3 {
		return nil
	}
	masked := trimmed[:3] + "xx"
	return &masked
}
