package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors the auth provider's user with marketplace-facing fields.
type Profile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:profiles_user_id_key"`
	Email     *string   `gorm:"column:email"`
	FullName  *string   `gorm:"column:full_name"`
	Phone     *string   `gorm:"column:phone"`
	ZipCode   *string   `gorm:"column:zip_code"`
	AvatarURL *string   `gorm:"column:avatar_url"`
	IsFarmer  bool      `gorm:"column:is_farmer;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
