package farms

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/pagination"
)

// Repository handles farm persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to farm operations.
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

// Create persists a new farm row.
func (r *Repository) Create(ctx context.Context, dto CreateFarmDTO) (*models.Farm, error) {
	farm := dto.ToModel()
	if farm.ID == uuid.Nil {
		farm.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(farm).Error; err != nil {
		return nil, err
	}
	return farm, nil
}

// FindByID loads a farm by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&farm).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// FindByOwner returns the farm owned by the provided user, newest first.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		First(&farm).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// ListActive returns active farms in a cursor page.
func (r *Repository) ListActive(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Farm, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	var farms []models.Farm
	if err := query.Find(&farms).Error; err != nil {
		return nil, err
	}
	return farms, nil
}

// Update saves the provided farm.
func (r *Repository) Update(ctx context.Context, farm *models.Farm) error {
	if farm == nil {
		return fmt.Errorf("farm is required")
	}
	return r.db.WithContext(ctx).Save(farm).Error
}

// SetStripeAccountID writes the connect account id onto the farm row.
func (r *Repository) SetStripeAccountID(ctx context.Context, farmID uuid.UUID, accountID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Farm{}).
		Where("id = ?", farmID).
		Updates(map[string]any{
			"stripe_account_id": accountID,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// MarkOnboardingComplete flips the readiness flag exactly once; returns
// whether this call performed the flip.
func (r *Repository) MarkOnboardingComplete(ctx context.Context, farmID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Farm{}).
		Where("id = ? AND stripe_onboarding_complete = ?", farmID, false).
		Updates(map[string]any{
			"stripe_onboarding_complete": true,
			"updated_at":                 time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByIDWithTx loads a farm using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Farm, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var farm models.Farm
	if err := tx.First(&farm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}
