package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// FarmerRoleRequest asks an admin to grant the farmer role.
type FarmerRoleRequest struct {
	ID        uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                 `gorm:"column:user_id;type:uuid;not null"`
	Status    enums.FarmerRequestStatus `gorm:"column:status;type:farmer_request_status;not null;default:pending"`
	Note      *string                   `gorm:"column:note"`
	AdminNote *string                   `gorm:"column:admin_note"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
