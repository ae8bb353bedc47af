// Package profiles persists the marketplace-facing mirror of auth users.
package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
)

// Repository handles profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to profile operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx clones the repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByUserID loads the profile mirroring the given auth user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or refreshes the profile keyed by user id.
func (r *Repository) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "full_name", "phone", "zip_code", "avatar_url", "updated_at",
			}),
		}).
		Create(profile).Error
}

// SetIsFarmerWithTx flips the denormalized farmer flag inside the provided
// transaction, alongside the user_roles grant.
func (r *Repository) SetIsFarmerWithTx(tx *gorm.DB, userID uuid.UUID, isFarmer bool) error {
	return tx.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("is_farmer", isFarmer).Error
}
