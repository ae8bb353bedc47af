package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// SharePurchase records a buyer's purchase of a share.
type SharePurchase struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID               uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null"`
	ShareID               uuid.UUID            `gorm:"column:share_id;type:uuid;not null"`
	FarmID                uuid.UUID            `gorm:"column:farm_id;type:uuid;not null"`
	Portion               enums.SharePortion   `gorm:"column:portion;type:share_portion;not null"`
	PricePaidCents        int                  `gorm:"column:price_paid_cents;not null"`
	Status                enums.PurchaseStatus `gorm:"column:status;type:purchase_status;not null;default:pending"`
	StripeSessionID       *string              `gorm:"column:stripe_session_id;uniqueIndex:share_purchases_stripe_session_id_key"`
	StripePaymentIntentID *string              `gorm:"column:stripe_payment_intent_id"`
	Notes                 *string              `gorm:"column:notes"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
