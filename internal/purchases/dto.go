package purchases

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// PurchaseDTO exposes a share purchase in API responses.
type PurchaseDTO struct {
	ID                    uuid.UUID            `json:"id"`
	BuyerID               uuid.UUID            `json:"buyer_id"`
	ShareID               uuid.UUID            `json:"share_id"`
	FarmID                uuid.UUID            `json:"farm_id"`
	Portion               enums.SharePortion   `json:"portion"`
	PricePaidCents        int                  `json:"price_paid_cents"`
	Status                enums.PurchaseStatus `json:"status"`
	StripeSessionID       *string              `json:"stripe_session_id,omitempty"`
	StripePaymentIntentID *string              `json:"stripe_payment_intent_id,omitempty"`
	Notes                 *string              `json:"notes,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// CheckoutDTO is the redirect handed back to the buyer after a checkout
// session was opened.
type CheckoutDTO struct {
	PurchaseID  uuid.UUID `json:"purchase_id"`
	SessionID   string    `json:"session_id"`
	CheckoutURL string    `json:"checkout_url"`
}

// FromModel maps a persisted purchase into a DTO.
func FromModel(m *models.SharePurchase) *PurchaseDTO {
	if m == nil {
		return nil
	}
	return &PurchaseDTO{
		ID:                    m.ID,
		BuyerID:               m.BuyerID,
		ShareID:               m.ShareID,
		FarmID:                m.FarmID,
		Portion:               m.Portion,
		PricePaidCents:        m.PricePaidCents,
		Status:                m.Status,
		StripeSessionID:       m.StripeSessionID,
		StripePaymentIntentID: m.StripePaymentIntentID,
		Notes:                 m.Notes,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toDTOs(rows []models.SharePurchase) []PurchaseDTO {
	out := make([]PurchaseDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
