package farmerroles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
)

// Repository handles farmer role request and role grant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to role request operations.
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

// CreateRequest persists a new role request.
func (r *Repository) CreateRequest(ctx context.Context, request *models.FarmerRoleRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(request).Error
}

// FindRequestByID loads a request by primary key.
func (r *Repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.FarmerRoleRequest, error) {
	var request models.FarmerRoleRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingByUser returns the user's pending request, if any.
func (r *Repository) FindPendingByUser(ctx context.Context, userID uuid.UUID) (*models.FarmerRoleRequest, error) {
	var request models.FarmerRoleRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.FarmerRequestStatusPending).
		Order("created_at DESC").
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByUser returns the user's requests, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FarmerRoleRequest, error) {
	var rows []models.FarmerRoleRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStatus returns requests in the given state, oldest first so admins
// review in arrival order.
func (r *Repository) ListByStatus(ctx context.Context, status enums.FarmerRequestStatus) ([]models.FarmerRoleRequest, error) {
	var rows []models.FarmerRoleRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateRequestWithTx persists request mutations inside the provided transaction.
func (r *Repository) UpdateRequestWithTx(tx *gorm.DB, request *models.FarmerRoleRequest) error {
	return tx.Save(request).Error
}

// GrantRoleWithTx inserts the role grant inside the provided transaction.
// Conflicts on (user_id, role) are ignored so re-approval stays idempotent.
func (r *Repository) GrantRoleWithTx(tx *gorm.DB, userID uuid.UUID, role enums.AppRole) error {
	grant := &models.UserRole{ID: uuid.New(), UserID: userID, Role: role}
	return tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
			DoNothing: true,
		}).
		Create(grant).Error
}

// HasRole reports whether the user holds the role.
func (r *Repository) HasRole(ctx context.Context, userID uuid.UUID, role enums.AppRole) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
