package controllers

import (
	"net/http"

	"github.com/farmdirectmeat/farmshare-backend/api/responses"
	"github.com/farmdirectmeat/farmshare-backend/api/validators"
	"github.com/farmdirectmeat/farmshare-backend/internal/waitlist"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
)

type waitlistSignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	ZipCode  string `json:"zip_code" validate:"required,min=3,max=10"`
	UserType string `json:"user_type" validate:"required,oneof=buyer farmer"`
}

// WaitlistSignup records pre-launch interest. Public, rate limited.
func WaitlistSignup(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req waitlistSignupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Signup(r.Context(), waitlist.SignupInput{
			Email:    req.Email,
			ZipCode:  req.ZipCode,
			UserType: req.UserType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

type buyerWaitlistRequest struct {
	FarmID         string  `json:"farm_id" validate:"required,uuid"`
	DesiredPortion string  `json:"desired_portion" validate:"required,oneof=1/8 1/4 1/2 3/4 whole"`
	AnimalType     string  `json:"animal_type" validate:"required,oneof=beef pork"`
	ZipCode        *string `json:"zip_code,omitempty" validate:"omitempty,min=3,max=10"`
	MaxDistance    *int    `json:"max_distance,omitempty" validate:"omitempty,gt=0"`
	AllowContact   bool    `json:"allow_contact"`
}

// BuyerWaitlistJoin registers the caller's interest in a farm's next shares.
func BuyerWaitlistJoin(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req buyerWaitlistRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmID, err := validators.ParseUUIDString(req.FarmID, "farm_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Join(r.Context(), actorID, waitlist.JoinInput{
			FarmID:         farmID,
			DesiredPortion: req.DesiredPortion,
			AnimalType:     req.AnimalType,
			ZipCode:        req.ZipCode,
			MaxDistance:    req.MaxDistance,
			AllowContact:   req.AllowContact,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// FarmerWaitlistList shows interested buyers for a farm the caller owns,
// with zips masked and contact details gated on buyer opt-in.
func FarmerWaitlistList(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmID, err := validators.ParseUUIDString(r.URL.Query().Get("farm_id"), "farm_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForFarm(r.Context(), actorID, farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// BuyerWaitlistMine lists the farms the caller is waiting on.
func BuyerWaitlistMine(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
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
