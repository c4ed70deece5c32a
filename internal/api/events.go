package api

import (
	"fmt"
	"net/http"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/validator"
)

func (a *Api) searchEventsHandler(w http.ResponseWriter, r *http.Request) {
	id, query, ok := a.eventsQuery(w, r)
	if !ok {
		return
	}

	events, err := a.eventsService.SearchEvents(r.Context(), id, query)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("search events: %w", err))
		return
	}

	resp, err := mapSlice(events, a.mapToEventResp)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) exportEventsHandler(w http.ResponseWriter, r *http.Request) {
	id, query, ok := a.eventsQuery(w, r)
	if !ok {
		return
	}

	data, err := a.eventsService.ExportEvents(r.Context(), id, query)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("export events: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// eventsQuery reads the caller and the search query. On failure the response
// is already written and ok is false.
func (a *Api) eventsQuery(w http.ResponseWriter, r *http.Request) (int64, *model.EventsQuery, bool) {
	id, ok := userID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return 0, nil, false
	}

	query, err := parseEventsQuery(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return 0, nil, false
	}

	return id, query, true
}

func parseEventsQuery(r *http.Request) (*model.EventsQuery, error) {
	q := r.URL.Query()

	res := &model.EventsQuery{
		Start: q.Get("start"),
		End:   q.Get("end"),
		Criteria: model.EventFilterCriteria{
			Calendars: queryList(r, "calendars"),
		},
	}

	if v := q.Get("query"); v != "" {
		res.Criteria.Query = &v
	}

	if v := q.Get("status"); v != "" {
		status, err := model.ParseEventStatus(v)
		if err != nil {
			return nil, err
		}
		res.Criteria.Status = &status
	}

	if v := q.Get("availability"); v != "" {
		availability, err := model.ParseAvailability(v)
		if err != nil {
			return nil, err
		}
		res.Criteria.Availability = &availability
	}

	var err error
	if res.Criteria.HasAlarms, err = queryBool(r, "has_alarms"); err != nil {
		return nil, err
	}
	if res.Criteria.IsRecurring, err = queryBool(r, "is_recurring"); err != nil {
		return nil, err
	}
	if res.Criteria.IncludeAllDay, err = queryBool(r, "include_all_day"); err != nil {
		return nil, err
	}

	return res, nil
}

func (a *Api) createEventHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	req := &struct {
		Title        string      `json:"title"`
		Start        string      `json:"start"`
		End          string      `json:"end"`
		AllDay       bool        `json:"all_day"`
		Calendar     string      `json:"calendar"`
		Location     string      `json:"location"`
		Notes        string      `json:"notes"`
		URL          string      `json:"url"`
		Availability string      `json:"availability"`
		Alarms       []*alarmReq `json:"alarms"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	var availability *model.Availability
	if req.Availability != "" {
		av, err := model.ParseAvailability(req.Availability)
		v.Check(err == nil, "availability", "must be one of not_supported, busy, free, tentative, unavailable")
		availability = &av
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	alarms, err := mapSlice(req.Alarms, mapToAlarmInput)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	event, err := a.eventsService.CreateEvent(r.Context(), id, &model.EventDraftInput{
		Title:        req.Title,
		Start:        req.Start,
		End:          req.End,
		IsAllDay:     req.AllDay,
		Calendar:     req.Calendar,
		Location:     req.Location,
		Notes:        req.Notes,
		URL:          req.URL,
		Availability: availability,
		Alarms:       alarms,
	})
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("create event: %w", err))
		return
	}

	resp, err := a.mapToEventResp(event)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
