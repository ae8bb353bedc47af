package waitlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
)

// Repository handles waitlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to waitlist operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSignup appends a pre-launch signup. The table is append-only.
func (r *Repository) CreateSignup(ctx context.Context, entry *models.WaitlistEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateBuyerEntry records a buyer's interest in a farm.
func (r *Repository) CreateBuyerEntry(ctx context.Context, entry *models.BuyerWaitlistEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListBuyerEntriesByFarm returns buyer interest rows for the farm, oldest first.
func (r *Repository) ListBuyerEntriesByFarm(ctx context.Context, farmID uuid.UUID) ([]models.BuyerWaitlistEntry, error) {
	var rows []models.BuyerWaitlistEntry
	err := r.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBuyerEntriesByUser returns the buyer's own waitlist entries.
func (r *Repository) ListBuyerEntriesByUser(ctx context.Context, userID uuid.UUID) ([]models.BuyerWaitlistEntry, error) {
	var rows []models.BuyerWaitlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
