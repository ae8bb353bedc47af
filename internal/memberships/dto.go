package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// MembershipDTO exposes a paid membership in API responses.
type MembershipDTO struct {
	ID                   uuid.UUID            `json:"id"`
	UserID               uuid.UUID            `json:"user_id"`
	MembershipType       enums.MembershipType `json:"membership_type"`
	Tier                 *string              `json:"tier,omitempty"`
	PricePaidCents       int                  `json:"price_paid_cents"`
	StripeSubscriptionID *string              `json:"stripe_subscription_id,omitempty"`
	StartsAt             time.Time            `json:"starts_at"`
	ExpiresAt            time.Time            `json:"expires_at"`
	IsActive             bool                 `json:"is_active"`
	CreatedAt            time.Time            `json:"created_at"`
}

// FromModel maps a persisted membership into a DTO.
func FromModel(m *models.Membership) *MembershipDTO {
	if m == nil {
		return nil
	}
	return &MembershipDTO{
		ID:                   m.ID,
		UserID:               m.UserID,
		MembershipType:       m.MembershipType,
		Tier:                 m.Tier,
		PricePaidCents:       m.PricePaidCents,
		StripeSubscriptionID: m.StripeSubscriptionID,
		StartsAt:             m.StartsAt,
		ExpiresAt:            m.ExpiresAt,
		IsActive:             m.IsActive,
		CreatedAt:            m.CreatedAt,
	}
}
