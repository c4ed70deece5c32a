package api

import (
	"fmt"
	"net/http"
)

// grantAccessHandler records that the user allowed access to their calendars.
func (a *Api) grantAccessHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	if err := a.access.Grant(r.Context(), id); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("grant access: %w", err))
		return
	}

	a.logger.Infow("calendar access granted", "user", id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) revokeAccessHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	if err := a.access.Revoke(r.Context(), id); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("revoke access: %w", err))
		return
	}

	a.logger.Infow("calendar access revoked", "user", id)
	w.WriteHeader(http.StatusNoContent)
}
