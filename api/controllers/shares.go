package controllers

import (
	"net/http"
	"time"

	"github.com/farmdirectmeat/farmshare-backend/api/responses"
	"github.com/farmdirectmeat/farmshare-backend/api/validators"
	"github.com/farmdirectmeat/farmshare-backend/internal/shares"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
)

type shareCreateRequest struct {
	AnimalType        string  `json:"animal_type" validate:"required,oneof=beef pork"`
	Portion           string  `json:"portion" validate:"required,oneof=1/8 1/4 1/2 3/4 whole"`
	PriceCents        int     `json:"price_cents" validate:"required,gt=0"`
	WeightEstimate    *string `json:"weight_estimate,omitempty"`
	QuantityAvailable int     `json:"quantity_available" validate:"gte=0"`
	NextAvailableDate *string `json:"next_available_date,omitempty"`
}

// FarmSharesList is the public view: available shares of an active farm.
func FarmSharesList(svc shares.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListPublicByFarm(r.Context(), farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// FarmerSharesList returns the caller's listings including sold-out shares.
func FarmerSharesList(svc shares.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListMine(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// FarmerShareCreate lists a new share on the caller's farm.
func FarmerShareCreate(svc shares.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req shareCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nextDate, err := parseShareDate(req.NextAvailableDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		share, err := svc.Create(r.Context(), actorID, shares.CreateShareDTO{
			AnimalType:        enums.AnimalType(req.AnimalType),
			Portion:           enums.SharePortion(req.Portion),
			PriceCents:        req.PriceCents,
			WeightEstimate:    req.WeightEstimate,
			QuantityAvailable: req.QuantityAvailable,
			NextAvailableDate: nextDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, share)
	}
}

type shareUpdateRequest struct {
	PriceCents        *int    `json:"price_cents,omitempty" validate:"omitempty,gt=0"`
	WeightEstimate    *string `json:"weight_estimate,omitempty"`
	QuantityAvailable *int    `json:"quantity_available,omitempty" validate:"omitempty,gte=0"`
	NextAvailableDate *string `json:"next_available_date,omitempty"`
}

// FarmerShareUpdate adjusts price, weight, quantity, or availability date.
func FarmerShareUpdate(svc shares.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shareID, err := validators.ParseUUIDParam(r, "shareId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req shareUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nextDate, err := parseShareDate(req.NextAvailableDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		share, err := svc.Update(r.Context(), actorID, shareID, shares.UpdateShareInput{
			PriceCents:        req.PriceCents,
			WeightEstimate:    req.WeightEstimate,
			QuantityAvailable: req.QuantityAvailable,
			NextAvailableDate: nextDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, share)
	}
}

// FarmerShareDelete removes a listing from the caller's farm.
func FarmerShareDelete(svc shares.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shareID, err := validators.ParseUUIDParam(r, "shareId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, shareID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseShareDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "next_available_date must be YYYY-MM-DD")
	}
	return &parsed, nil
}
