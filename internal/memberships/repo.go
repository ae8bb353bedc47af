package memberships

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
)

// Repository handles membership persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to membership operations.
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

// Create persists a new membership row.
func (r *Repository) Create(ctx context.Context, membership *models.Membership) error {
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(membership).Error
}

// CreateWithTx persists a new membership inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, membership *models.Membership) error {
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}
	return tx.Create(membership).Error
}

// FindCurrent returns the user's newest unexpired membership.
func (r *Repository) FindCurrent(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, now).
		Order("expires_at DESC").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindBySubscriptionID looks a membership up by its subscription.
func (r *Repository) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", subscriptionID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}
