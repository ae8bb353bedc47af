package controllers

import (
	"net/http"
	"strings"

	"github.com/farmdirectmeat/farmshare-backend/api/responses"
	"github.com/farmdirectmeat/farmshare-backend/api/validators"
	"github.com/farmdirectmeat/farmshare-backend/internal/memberships"
	"github.com/farmdirectmeat/farmshare-backend/internal/onboarding"
	"github.com/farmdirectmeat/farmshare-backend/internal/purchases"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
)

// requestOrigin reads the browser origin used to build redirect URLs. The
// gateway falls back to the configured production origin when empty.
func requestOrigin(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Origin"))
}

type createCheckoutRequest struct {
	PriceType string `json:"priceType" validate:"required,oneof=buyer farmer"`
}

// PaymentsCreateCheckout opens a subscription checkout for a membership tier.
func PaymentsCreateCheckout(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createCheckoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkout, err := svc.StartCheckout(r.Context(), actorID, req.PriceType, requestOrigin(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": checkout.URL})
	}
}

type createConnectAccountRequest struct {
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// PaymentsCreateConnectAccount starts Stripe Express onboarding for the
// caller's farm.
func PaymentsCreateConnectAccount(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createConnectAccountRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Start(r.Context(), actorID, req.Email, requestOrigin(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"accountId":     result.AccountID,
			"onboardingUrl": result.OnboardingURL,
		})
	}
}

// PaymentsRefreshConnectOnboarding re-issues an onboarding link.
func PaymentsRefreshConnectOnboarding(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.RefreshLink(r.Context(), actorID, requestOrigin(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"onboardingUrl": url})
	}
}

// PaymentsCheckConnectStatus polls account readiness and syncs the farm flag.
func PaymentsCheckConnectStatus(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.SyncReadiness(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

type purchaseShareRequest struct {
	ShareID string `json:"shareId" validate:"required,uuid"`
}

// PaymentsPurchaseShare opens a destination-charge checkout for one share
// unit and records the pending purchase.
func PaymentsPurchaseShare(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req purchaseShareRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shareID, err := validators.ParseUUIDString(req.ShareID, "shareId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkout, err := svc.StartCheckout(r.Context(), actorID, purchases.StartCheckoutInput{
			ShareID:        shareID,
			Origin:         requestOrigin(r),
			IdempotencyKey: r.Header.Get("Idempotency-Key"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkout)
	}
}
