package farmerroles

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// RequestDTO exposes a farmer role request in API responses.
type RequestDTO struct {
	ID        uuid.UUID                 `json:"id"`
	UserID    uuid.UUID                 `json:"user_id"`
	Status    enums.FarmerRequestStatus `json:"status"`
	Note      *string                   `json:"note,omitempty"`
	AdminNote *string                   `json:"admin_note,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// FromModel maps a persisted request into a DTO.
func FromModel(m *models.FarmerRoleRequest) *RequestDTO {
	if m == nil {
		return nil
	}
	return &RequestDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		Status:    m.Status,
		Note:      m.Note,
		AdminNote: m.AdminNote,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDTOs(rows []models.FarmerRoleRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
