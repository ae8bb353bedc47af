package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// Membership records a paid subscription tier.
type Membership struct {
	ID                   uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	MembershipType       enums.MembershipType `gorm:"column:membership_type;not null"`
	Tier                 *string              `gorm:"column:tier"`
	PricePaidCents       int                  `gorm:"column:price_paid_cents;not null"`
	StripeSubscriptionID *string              `gorm:"column:stripe_subscription_id"`
	StartsAt             time.Time            `gorm:"column:starts_at;not null"`
	ExpiresAt            time.Time            `gorm:"column:expires_at;not null"`
	IsActive             bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time            `gorm:"column:created_at;autoCreateTime"`
}
