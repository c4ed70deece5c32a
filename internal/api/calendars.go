package api

import (
	"fmt"
	"net/http"
)

func (a *Api) listCalendarsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	calendars, err := a.eventsService.ListCalendars(r.Context(), id)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("list calendars: %w", err))
		return
	}

	resp, _ := mapSlice(calendars, mapToCalendarResp)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
