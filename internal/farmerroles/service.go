package farmerroles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirectmeat/farmshare-backend/pkg/db/models"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

const maxNoteLength = 500

type requestRepository interface {
	CreateRequest(ctx context.Context, request *models.FarmerRoleRequest) error
	FindRequestByID(ctx context.Context, id uuid.UUID) (*models.FarmerRoleRequest, error)
	FindPendingByUser(ctx context.Context, userID uuid.UUID) (*models.FarmerRoleRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FarmerRoleRequest, error)
	ListByStatus(ctx context.Context, status enums.FarmerRequestStatus) ([]models.FarmerRoleRequest, error)
	UpdateRequestWithTx(tx *gorm.DB, request *models.FarmerRoleRequest) error
	GrantRoleWithTx(tx *gorm.DB, userID uuid.UUID, role enums.AppRole) error
	HasRole(ctx context.Context, userID uuid.UUID, role enums.AppRole) (bool, error)
}

type profileWriter interface {
	SetIsFarmerWithTx(tx *gorm.DB, userID uuid.UUID, isFarmer bool) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Decision is an admin's verdict on a role request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Service handles farmer role requests and their review.
type Service interface {
	Request(ctx context.Context, userID uuid.UUID, note string) (*RequestDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]RequestDTO, error)
	ListPending(ctx context.Context) ([]RequestDTO, error)
	Review(ctx context.Context, requestID uuid.UUID, decision Decision, adminNote string) (*RequestDTO, error)
	HasRole(ctx context.Context, userID uuid.UUID, role enums.AppRole) (bool, error)
}

type service struct {
	repo     requestRepository
	profiles profileWriter
	tx       txRunner
}

// NewService builds a farmer role service with the provided dependencies.
func NewService(repo requestRepository, profiles profileWriter, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("request repository required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile writer required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, profiles: profiles, tx: tx}, nil
}

func (s *service) Request(ctx context.Context, userID uuid.UUID, note string) (*RequestDTO, error) {
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note must be 500 characters or fewer")
	}

	// At most one actionable request per user.
	existing, err := s.repo.FindPendingByUser(ctx, userID)
	if err == nil {
		return FromModel(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending request")
	}

	request := &models.FarmerRoleRequest{
		UserID: userID,
		Status: enums.FarmerRequestStatusPending,
	}
	if note != "" {
		request.Note = &note
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}
	return FromModel(request), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]RequestDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return toDTOs(rows), nil
}

func (s *service) ListPending(ctx context.Context) ([]RequestDTO, error) {
	rows, err := s.repo.ListByStatus(ctx, enums.FarmerRequestStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return toDTOs(rows), nil
}

func (s *service) Review(ctx context.Context, requestID uuid.UUID, decision Decision, adminNote string) (*RequestDTO, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be approve or reject")
	}
	adminNote = strings.TrimSpace(adminNote)
	if len(adminNote) > maxNoteLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note must be 500 characters or fewer")
	}

	request, err := s.repo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	// Reviews are terminal.
	if request.Status != enums.FarmerRequestStatusPending {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("request already %s", request.Status),
		)
	}

	if decision == DecisionApprove {
		request.Status = enums.FarmerRequestStatusApproved
	} else {
		request.Status = enums.FarmerRequestStatusRejected
	}
	if adminNote != "" {
		request.AdminNote = &adminNote
	}

	// Approval and the role grant land or fail together.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateRequestWithTx(tx, request); err != nil {
			return err
		}
		if request.Status != enums.FarmerRequestStatusApproved {
			return nil
		}
		if err := s.repo.GrantRoleWithTx(tx, request.UserID, enums.AppRoleFarmer); err != nil {
			return err
		}
		return s.profiles.SetIsFarmerWithTx(tx, request.UserID, true)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "review request")
	}
	return FromModel(request), nil
}

func (s *service) HasRole(ctx context.Context, userID uuid.UUID, role enums.AppRole) (bool, error) {
	has, err := s.repo.HasRole(ctx, userID, role)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check role")
	}
	return has, nil
}
