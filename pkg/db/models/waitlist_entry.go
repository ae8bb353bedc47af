package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry captures pre-launch interest. Append-only.
type WaitlistEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;not null"`
	ZipCode   string    `gorm:"column:zip_code;not null"`
	UserType  string    `gorm:"column:user_type;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the original schema's table name.
func (WaitlistEntry) TableName() string {
	return "waitlist"
}
