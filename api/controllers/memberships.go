package controllers

import (
	"net/http"

	"github.com/farmdirectmeat/farmshare-backend/api/responses"
	"github.com/farmdirectmeat/farmshare-backend/internal/memberships"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
)

// MembershipCurrent returns the caller's active membership, if any.
func MembershipCurrent(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		membership, err := svc.Current(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, membership)
	}
}
