package models

import (
	"time"

	"github.com/google/uuid"
)

// Farm is a farmer-owned profile that lists shares for sale.
type Farm struct {
	ID                       uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID                  uuid.UUID  `gorm:"column:owner_id;type:uuid;not null"`
	Name                     string     `gorm:"column:name;not null"`
	Description              *string    `gorm:"column:description"`
	Location                 string     `gorm:"column:location;not null"`
	ZipCode                  string     `gorm:"column:zip_code;not null"`
	Latitude                 *float64   `gorm:"column:latitude;type:numeric(9,6)"`
	Longitude                *float64   `gorm:"column:longitude;type:numeric(9,6)"`
	ImageURL                 *string    `gorm:"column:image_url"`
	Badge                    *string    `gorm:"column:badge"`
	IsGrassFed               bool       `gorm:"column:is_grass_fed;not null;default:false"`
	IsOrganic                bool       `gorm:"column:is_organic;not null;default:false"`
	Rating                   *float64   `gorm:"column:rating;type:numeric(3,2)"`
	ReviewCount              int        `gorm:"column:review_count;not null;default:0"`
	IsActive                 bool       `gorm:"column:is_active;not null;default:true"`
	StripeAccountID          *string    `gorm:"column:stripe_account_id"`
	StripeOnboardingComplete bool       `gorm:"column:stripe_onboarding_complete;not null;default:false"`
	Shares                   []Share    `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE"`
	CreatedAt                time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// PaymentsReady reports whether the farm can accept destination charges.
func (f *Farm) PaymentsReady() bool {
	if f == nil {
		return false
	}
	return f.StripeAccountID != nil && *f.StripeAccountID != "" && f.StripeOnboardingComplete
}
