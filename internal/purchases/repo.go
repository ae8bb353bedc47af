package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
)

// Repository handles share purchase persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to purchase operations.
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

// Create persists a new purchase row.
func (r *Repository) Create(ctx context.Context, purchase *models.SharePurchase) error {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(purchase).Error
}

// FindByID loads a purchase by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SharePurchase, error) {
	var purchase models.SharePurchase
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// FindBySessionIDWithTx loads a purchase by its checkout session inside the
// provided transaction. Redeliveries of the same event are serialized by the
// webhook's event-id guard, not by a row lock here.
func (r *Repository) FindBySessionIDWithTx(tx *gorm.DB, sessionID string) (*models.SharePurchase, error) {
	var purchase models.SharePurchase
	err := tx.
		Where("stripe_session_id = ?", sessionID).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListByBuyer returns the buyer's purchases, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.SharePurchase, error) {
	var rows []models.SharePurchase
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByFarm returns purchases against the farm's shares, newest first.
func (r *Repository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.SharePurchase, error) {
	var rows []models.SharePurchase
	err := r.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists purchase mutations.
func (r *Repository) Update(ctx context.Context, purchase *models.SharePurchase) error {
	return r.db.WithContext(ctx).Save(purchase).Error
}

// UpdateWithTx persists purchase mutations inside the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, purchase *models.SharePurchase) error {
	return tx.Save(purchase).Error
}
