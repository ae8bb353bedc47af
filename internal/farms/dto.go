package farms

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
)

// FarmDTO exposes safe farm data in API responses.
type FarmDTO struct {
	ID                       uuid.UUID  `json:"id"`
	OwnerID                  uuid.UUID  `json:"owner_id"`
	Name                     string     `json:"name"`
	Description              *string    `json:"description,omitempty"`
	Location                 string     `json:"location"`
	ZipCode                  string     `json:"zip_code"`
	Latitude                 *float64   `json:"latitude,omitempty"`
	Longitude                *float64   `json:"longitude,omitempty"`
	ImageURL                 *string    `json:"image_url,omitempty"`
	Badge                    *string    `json:"badge,omitempty"`
	IsGrassFed               bool       `json:"is_grass_fed"`
	IsOrganic                bool       `json:"is_organic"`
	Rating                   *float64   `json:"rating,omitempty"`
	ReviewCount              int        `json:"review_count"`
	IsActive                 bool       `json:"is_active"`
	StripeAccountID          *string    `json:"stripe_account_id,omitempty"`
	StripeOnboardingComplete bool       `json:"stripe_onboarding_complete"`
	PaymentsReady            bool       `json:"payments_ready"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// PublicFarmDTO is the browse-surface projection: no payout account details.
type PublicFarmDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Location      string    `json:"location"`
	ZipCode       string    `json:"zip_code"`
	ImageURL      *string   `json:"image_url,omitempty"`
	Badge         *string   `json:"badge,omitempty"`
	IsGrassFed    bool      `json:"is_grass_fed"`
	IsOrganic     bool      `json:"is_organic"`
	Rating        *float64  `json:"rating,omitempty"`
	ReviewCount   int       `json:"review_count"`
	PaymentsReady bool      `json:"payments_ready"`
}

// CreateFarmDTO holds creation-time data for a new farm.
type CreateFarmDTO struct {
	OwnerID     uuid.UUID
	Name        string
	Description *string
	Location    string
	ZipCode     string
	Latitude    *float64
	Longitude   *float64
	ImageURL    *string
	IsGrassFed  bool
	IsOrganic   bool
}

// ToModel maps creation input onto a farm row.
func (d CreateFarmDTO) ToModel() *models.Farm {
	return &models.Farm{
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
		ZipCode:     d.ZipCode,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		ImageURL:    d.ImageURL,
		IsGrassFed:  d.IsGrassFed,
		IsOrganic:   d.IsOrganic,
		IsActive:    true,
	}
}

// FromModel maps the persisted farm into a DTO.
func FromModel(m *models.Farm) *FarmDTO {
	if m == nil {
		return nil
	}
	return &FarmDTO{
		ID:                       m.ID,
		OwnerID:                  m.OwnerID,
		Name:                     m.Name,
		Description:              m.Description,
		Location:                 m.Location,
		ZipCode:                  m.ZipCode,
		Latitude:                 m.Latitude,
		Longitude:                m.Longitude,
		ImageURL:                 m.ImageURL,
		Badge:                    m.Badge,
		IsGrassFed:               m.IsGrassFed,
		IsOrganic:                m.IsOrganic,
		Rating:                   m.Rating,
		ReviewCount:              m.ReviewCount,
		IsActive:                 m.IsActive,
		StripeAccountID:          m.StripeAccountID,
		StripeOnboardingComplete: m.StripeOnboardingComplete,
		PaymentsReady:            m.PaymentsReady(),
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
}

// PublicFromModel maps the farm into the browse projection.
func PublicFromModel(m *models.Farm) *PublicFarmDTO {
	if m == nil {
		return nil
	}
	return &PublicFarmDTO{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Location:      m.Location,
		ZipCode:       m.ZipCode,
		ImageURL:      m.ImageURL,
		Badge:         m.Badge,
		IsGrassFed:    m.IsGrassFed,
		IsOrganic:     m.IsOrganic,
		Rating:        m.Rating,
		ReviewCount:   m.ReviewCount,
		PaymentsReady: m.PaymentsReady(),
	}
}
