package shares

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
)

// Repository handles share persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to share operations.
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

// Create persists a new share row.
func (r *Repository) Create(ctx context.Context, dto CreateShareDTO) (*models.Share, error) {
	share := dto.ToModel()
	if share.ID == uuid.Nil {
		share.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(share).Error; err != nil {
		return nil, err
	}
	return share, nil
}

// FindByID loads a share by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Share, error) {
	var share models.Share
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&share).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

// ListAvailableByFarm returns shares buyers can still purchase.
func (r *Repository) ListAvailableByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Share, error) {
	var rows []models.Share
	if err := r.db.WithContext(ctx).
		Where("farm_id = ? AND quantity_available > 0", farmID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByFarm returns every share for the farm, sold-out included.
func (r *Repository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Share, error) {
	var rows []models.Share
	if err := r.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided share.
func (r *Repository) Update(ctx context.Context, share *models.Share) error {
	if share == nil {
		return fmt.Errorf("share is required")
	}
	return r.db.WithContext(ctx).Save(share).Error
}

// Delete removes the share row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Share{}, "id = ?", id).Error
}

// DecrementAvailableWithTx takes one unit off the share inside the provided
// transaction. The WHERE guard keeps quantity from ever going negative under
// concurrent confirmations; returns whether a unit was actually taken.
func (r *Repository) DecrementAvailableWithTx(tx *gorm.DB, shareID uuid.UUID) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	res := tx.Exec(
		"UPDATE available_shares SET quantity_available = quantity_available - 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND quantity_available > 0",
		shareID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByIDWithTx loads a share using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Share, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var share models.Share
	if err := tx.First(&share, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &share, nil
}
