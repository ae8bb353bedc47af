package controllers

import (
	"net/http"

	"github.com/farmdirectmeat/farmshare-backend/api/responses"
	"github.com/farmdirectmeat/farmshare-backend/api/validators"
	"github.com/farmdirectmeat/farmshare-backend/internal/farmerroles"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
)

type farmerRequestCreate struct {
	Note string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// FarmerRequestCreate asks for the farmer role. Returns the existing pending
// request when one is already open.
func FarmerRequestCreate(svc farmerroles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req farmerRequestCreate
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Request(r.Context(), actorID, validators.SanitizeString(req.Note, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// FarmerRequestsMine lists the caller's role requests.
func FarmerRequestsMine(svc farmerroles.Service, logg *logger.Logger) http.HandlerFunc {
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

// AdminFarmerRequestsList shows pending requests in arrival order.
func AdminFarmerRequestsList(svc farmerroles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListPending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type farmerRequestReview struct {
	Decision  string `json:"decision" validate:"required,oneof=approve reject"`
	AdminNote string `json:"admin_note,omitempty" validate:"omitempty,max=500"`
}

// AdminFarmerRequestReview approves or rejects a pending request. Approval
// grants the farmer role atomically with the status change.
func AdminFarmerRequestReview(svc farmerroles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req farmerRequestReview
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Review(r.Context(), requestID, farmerroles.Decision(req.Decision), validators.SanitizeString(req.AdminNote, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}
