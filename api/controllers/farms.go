package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/farmdirectmeat/farmshare-backend/api/middleware"
	"github.com/farmdirectmeat/farmshare-backend/api/responses"
	"github.com/farmdirectmeat/farmshare-backend/api/validators"
	"github.com/farmdirectmeat/farmshare-backend/internal/farms"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
	"github.com/farmdirectmeat/farmshare-backend/pkg/pagination"
)

type farmCreateRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=120"`
	Description *string  `json:"description,omitempty"`
	Location    string   `json:"location" validate:"required,min=1"`
	ZipCode     string   `json:"zip_code" validate:"required,min=3,max=10"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsGrassFed  bool     `json:"is_grass_fed"`
	IsOrganic   bool     `json:"is_organic"`
}

// FarmCreate registers the caller's farm. One farm per owner.
func FarmCreate(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req farmCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.Create(r.Context(), actorID, farms.CreateFarmDTO{
			OwnerID:     actorID,
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			ZipCode:     req.ZipCode,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			ImageURL:    req.ImageURL,
			IsGrassFed:  req.IsGrassFed,
			IsOrganic:   req.IsOrganic,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, farm)
	}
}

// FarmBrowse lists active farms with cursor pagination.
func FarmBrowse(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Browse(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// FarmGet returns the public view of one active farm.
func FarmGet(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.GetPublicByID(r.Context(), farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// FarmMine returns the caller's own farm including payout fields.
func FarmMine(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.GetMine(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

type farmUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,min=1"`
	ZipCode     *string  `json:"zip_code,omitempty" validate:"omitempty,min=3,max=10"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsGrassFed  *bool    `json:"is_grass_fed,omitempty"`
	IsOrganic   *bool    `json:"is_organic,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// FarmUpdate adjusts mutable farm fields. Owner only.
func FarmUpdate(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req farmUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.Update(r.Context(), actorID, farmID, farms.UpdateFarmInput{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			ZipCode:     req.ZipCode,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			ImageURL:    req.ImageURL,
			IsGrassFed:  req.IsGrassFed,
			IsOrganic:   req.IsOrganic,
			IsActive:    req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// actorUUID reads the authenticated user id seeded by the auth middleware.
func actorUUID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
