package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// Share is an inventory unit: a sellable portion of an animal.
type Share struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FarmID            uuid.UUID          `gorm:"column:farm_id;type:uuid;not null"`
	AnimalType        enums.AnimalType   `gorm:"column:animal_type;type:animal_type;not null;default:beef"`
	Portion           enums.SharePortion `gorm:"column:portion;type:share_portion;not null"`
	PriceCents        int                `gorm:"column:price_cents;not null"`
	WeightEstimate    *string            `gorm:"column:weight_estimate"`
	QuantityAvailable int                `gorm:"column:quantity_available;not null;default:0"`
	NextAvailableDate *time.Time         `gorm:"column:next_available_date;type:date"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the original schema's table name.
func (Share) TableName() string {
	return "available_shares"
}
