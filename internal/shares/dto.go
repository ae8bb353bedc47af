package shares

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// ShareDTO exposes a listed share in API responses.
type ShareDTO struct {
	ID                uuid.UUID          `json:"id"`
	FarmID            uuid.UUID          `json:"farm_id"`
	AnimalType        enums.AnimalType   `json:"animal_type"`
	Portion           enums.SharePortion `json:"portion"`
	PriceCents        int                `json:"price_cents"`
	WeightEstimate    *string            `json:"weight_estimate,omitempty"`
	QuantityAvailable int                `json:"quantity_available"`
	NextAvailableDate *time.Time         `json:"next_available_date,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// CreateShareDTO holds creation-time data for a new share listing.
type CreateShareDTO struct {
	FarmID            uuid.UUID
	AnimalType        enums.AnimalType
	Portion           enums.SharePortion
	PriceCents        int
	WeightEstimate    *string
	QuantityAvailable int
	NextAvailableDate *time.Time
}

// ToModel maps creation input onto a share row.
func (d CreateShareDTO) ToModel() *models.Share {
	return &models.Share{
		FarmID:            d.FarmID,
		AnimalType:        d.AnimalType,
		Portion:           d.Portion,
		PriceCents:        d.PriceCents,
		WeightEstimate:    d.WeightEstimate,
		QuantityAvailable: d.QuantityAvailable,
		NextAvailableDate: d.NextAvailableDate,
	}
}

// FromModel maps the persisted share into a DTO.
func FromModel(m *models.Share) *ShareDTO {
	if m == nil {
		return nil
	}
	return &ShareDTO{
		ID:                m.ID,
		FarmID:            m.FarmID,
		AnimalType:        m.AnimalType,
		Portion:           m.Portion,
		PriceCents:        m.PriceCents,
		WeightEstimate:    m.WeightEstimate,
		QuantityAvailable: m.QuantityAvailable,
		NextAvailableDate: m.NextAvailableDate,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
