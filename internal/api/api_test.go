package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/jwt"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "valid-token"

type fakeJWT struct{}

func (fakeJWT) CreateToken(id int64) (string, error) {
	return testToken, nil
}

func (fakeJWT) GetIdFromToken(token string) (int64, error) {
	if token != testToken {
		return 0, &jwt.InvalidTokenError{Err: errors.New("bad signature")}
	}
	return 7, nil
}

type fakeAccess struct {
	granted map[int64]bool
}

func (a *fakeAccess) Grant(_ context.Context, userID int64) error {
	a.granted[userID] = true
	return nil
}

func (a *fakeAccess) Revoke(_ context.Context, userID int64) error {
	delete(a.granted, userID)
	return nil
}

type fakeEventsService struct {
	events    []*model.Event
	calendars []*model.Calendar
	exported  []byte
	err       error

	userID  int64
	query   *model.EventsQuery
	created *model.EventDraftInput
}

func (s *fakeEventsService) SearchEvents(_ context.Context, userID int64, query *model.EventsQuery) ([]*model.Event, error) {
	s.userID, s.query = userID, query
	return s.events, s.err
}

func (s *fakeEventsService) CreateEvent(_ context.Context, userID int64, input *model.EventDraftInput) (*model.Event, error) {
	s.userID, s.created = userID, input
	if s.err != nil {
		return nil, s.err
	}
	return &model.Event{
		ID:            "new-id",
		CalendarID:    1,
		CalendarTitle: "Work",
		Title:         input.Title,
		Start:         time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
		Alarms:        []model.Alarm{model.RelativeAlarm{OffsetSeconds: -600}},
	}, nil
}

func (s *fakeEventsService) ExportEvents(_ context.Context, userID int64, query *model.EventsQuery) ([]byte, error) {
	s.userID, s.query = userID, query
	if s.err != nil {
		return nil, s.err
	}
	return s.exported, nil
}

func (s *fakeEventsService) ListCalendars(_ context.Context, userID int64) ([]*model.Calendar, error) {
	s.userID = userID
	return s.calendars, s.err
}

type apiFixture struct {
	api     *Api
	access  *fakeAccess
	service *fakeEventsService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	f := &apiFixture{
		access:  &fakeAccess{granted: map[int64]bool{}},
		service: &fakeEventsService{},
	}

	a, err := NewApi(zap.NewNop().Sugar(), time.UTC, fakeJWT{}, f.access, f.service)
	require.NoError(t, err)
	f.api = a

	return f
}

func (f *apiFixture) do(method, target, body string, authorized bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	f.api.ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	f := newAPIFixture(t)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthcheck", "", false).Code)
}

func TestAuth(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/events", "", false).Code)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	f.api.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchEvents(t *testing.T) {
	f := newAPIFixture(t)
	f.service.events = []*model.Event{{
		ID:            "e1",
		CalendarID:    1,
		CalendarTitle: "Work",
		Title:         "Standup",
		Start:         time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC),
		Status:        model.EventStatusConfirmed,
		Availability:  model.AvailabilityBusy,
	}}

	rec := f.do(http.MethodGet,
		"/events?start=2024-03-01&end=2024-03-02&calendars=Work,Home&calendars=Gym&query=stand&status=confirmed&availability=busy&include_all_day=false&has_alarms=true",
		"", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	q := f.service.query
	require.NotNil(t, q)
	assert.Equal(t, int64(7), f.service.userID)
	assert.Equal(t, "2024-03-01", q.Start)
	assert.Equal(t, "2024-03-02", q.End)
	assert.Equal(t, []string{"Work", "Home", "Gym"}, q.Criteria.Calendars)
	require.NotNil(t, q.Criteria.Query)
	assert.Equal(t, "stand", *q.Criteria.Query)
	assert.Equal(t, model.EventStatusConfirmed, *q.Criteria.Status)
	assert.Equal(t, model.AvailabilityBusy, *q.Criteria.Availability)
	assert.False(t, *q.Criteria.IncludeAllDay)
	assert.True(t, *q.Criteria.HasAlarms)
	assert.Nil(t, q.Criteria.IsRecurring)

	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "e1", resp[0]["id"])
	assert.Equal(t, "Work", resp[0]["calendar"])
	assert.Equal(t, "2024-03-01T09:00:00Z", resp[0]["start"])
	assert.Equal(t, "confirmed", resp[0]["status"])
	assert.Equal(t, "busy", resp[0]["availability"])
	assert.Equal(t, []interface{}{}, resp[0]["alarms"])
}

func TestSearchEvents_BadQuery(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/events?status=maybe", "", true).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/events?has_alarms=perhaps", "", true).Code)
	assert.Nil(t, f.service.query)
}

func TestSearchEvents_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"parse error", &temporal.ParseError{Input: "x", Err: temporal.ErrMalformed}, http.StatusBadRequest},
		{"ambiguous", &temporal.ParseError{Input: "x", Err: temporal.ErrAmbiguousFormat}, http.StatusBadRequest},
		{"invalid range", temporal.ErrInvalidRange, http.StatusBadRequest},
		{"unauthorized", model.ErrUnauthorized, http.StatusForbidden},
		{"store", &model.StoreError{Op: "fetch events", Err: errors.New("boom")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.service.err = tt.err

			rec := f.do(http.MethodGet, "/events", "", true)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestCreateEvent(t *testing.T) {
	f := newAPIFixture(t)

	body := `{
		"title": "Review",
		"start": "2024-03-01T10:00:00",
		"end": "2024-03-01T11:00:00",
		"calendar": "work",
		"availability": "free",
		"alarms": [
			{"type": "relative", "minutes": 10, "sound": "Glass"},
			{"type": "proximity", "latitude": 52.5, "longitude": 13.4, "proximity": "leave"}
		]
	}`

	rec := f.do(http.MethodPost, "/events", body, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	in := f.service.created
	require.NotNil(t, in)
	assert.Equal(t, "Review", in.Title)
	assert.Equal(t, "work", in.Calendar)
	assert.Equal(t, model.AvailabilityFree, *in.Availability)
	require.Len(t, in.Alarms, 2)
	assert.Equal(t, 10, *in.Alarms[0].Minutes)
	assert.Equal(t, "Glass", in.Alarms[0].Sound)
	assert.Equal(t, "leave", in.Alarms[1].Proximity)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new-id", resp["id"])
	alarms := resp["alarms"].([]interface{})
	require.Len(t, alarms, 1)
	assert.Equal(t, -600.0, alarms[0].(map[string]interface{})["offset_seconds"])
}

func TestCreateEvent_Validation(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/events", `{"title": "x", "availability": "sometimes"}`, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, f.service.created)

	rec = f.do(http.MethodPost, "/events", `{"title": "x", "colour": "red"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/events", `{"title": "x", "alarms": [null]}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.service.err = &model.MissingFieldError{Fields: map[string]string{"start": "must be provided"}}
	rec = f.do(http.MethodPost, "/events", `{"title": "x"}`, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "must be provided", resp.Error["start"])
}

func TestExportEvents(t *testing.T) {
	f := newAPIFixture(t)
	f.service.exported = []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")

	rec := f.do(http.MethodGet, "/events/export?start=2024-03-01&calendars=Work", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "events.ics")
	assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", rec.Body.String())
	assert.Equal(t, int64(7), f.service.userID)
	assert.Equal(t, "2024-03-01", f.service.query.Start)
	assert.Equal(t, []string{"Work"}, f.service.query.Criteria.Calendars)
}

func TestExportEvents_Unauthorized(t *testing.T) {
	f := newAPIFixture(t)
	f.service.err = model.ErrUnauthorized

	rec := f.do(http.MethodGet, "/events/export", "", true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListCalendars(t *testing.T) {
	f := newAPIFixture(t)
	f.service.calendars = []*model.Calendar{
		{ID: 1, Title: "Work", SourceTitle: "iCloud", Color: "#007AFF", ColorName: "blue", Editable: true, Default: true},
	}

	rec := f.do(http.MethodGet, "/calendars", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []calendarResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Work", resp[0].Title)
	assert.Equal(t, "iCloud", resp[0].Source)
	assert.Equal(t, "blue", resp[0].ColorName)
	assert.True(t, resp[0].Default)
}

func TestAccess(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/access", "", true).Code)
	assert.True(t, f.access.granted[7])

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/access", "", true).Code)
	assert.False(t, f.access.granted[7])
}
