package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// BuyerWaitlistEntry is a buyer's group-matching interest in a farm.
type BuyerWaitlistEntry struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	FarmID         uuid.UUID          `gorm:"column:farm_id;type:uuid;not null"`
	DesiredPortion enums.SharePortion `gorm:"column:desired_portion;type:share_portion;not null"`
	AnimalType     enums.AnimalType   `gorm:"column:animal_type;type:animal_type;not null;default:beef"`
	ZipCode        *string            `gorm:"column:zip_code"`
	MaxDistance    *int               `gorm:"column:max_distance"`
	AllowContact   bool               `gorm:"column:allow_contact;not null;default:false"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the original schema's table name.
func (BuyerWaitlistEntry) TableName() string {
	return "buyer_waitlist"
}
