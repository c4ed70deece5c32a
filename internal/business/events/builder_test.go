package events

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testLoc = time.FixedZone("UTC+3", 3*60*60)

var (
	workCalendar = &model.Calendar{ID: 1, Title: "Work", Editable: true}
	homeCalendar = &model.Calendar{ID: 2, Title: "Home", Editable: true, Default: true}
	testCalendars = []*model.Calendar{workCalendar, homeCalendar}
)

func newTestBuilder() (*Builder, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return NewBuilder(zap.New(core).Sugar(), testLoc), logs
}

func TestBuilder_Build_MissingFields(t *testing.T) {
	b, _ := newTestBuilder()

	_, err := b.Build(&model.EventDraftInput{Title: " "}, testCalendars, homeCalendar)

	var missing *model.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, missing.Fields, "title")
	assert.Contains(t, missing.Fields, "start")
	assert.Contains(t, missing.Fields, "end")
}

func TestBuilder_Build_UnparseableStart(t *testing.T) {
	b, _ := newTestBuilder()

	_, err := b.Build(&model.EventDraftInput{
		Title: "Call",
		Start: "next tuesday",
		End:   "2024-03-01T10:00:00",
	}, testCalendars, homeCalendar)

	var missing *model.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, missing.Fields, "start")
	assert.NotContains(t, missing.Fields, "end")
}

func TestBuilder_Build_NoCalendar(t *testing.T) {
	b, _ := newTestBuilder()

	_, err := b.Build(&model.EventDraftInput{
		Title: "Call",
		Start: "2024-03-01T10:00:00",
		End:   "2024-03-01T11:00:00",
	}, nil, nil)

	var missing *model.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, missing.Fields, "calendar")
}

func TestBuilder_Build_Timed(t *testing.T) {
	b, _ := newTestBuilder()

	draft, err := b.Build(&model.EventDraftInput{
		Title:    "Review",
		Start:    "2024-03-01T10:00:00",
		End:      "2024-03-01T11:30:00",
		Calendar: "work",
		Location: "Room 1",
		Notes:    "bring slides",
		URL:      "https://example.com/review",
	}, testCalendars, homeCalendar)
	require.NoError(t, err)

	assert.True(t, draft.Start.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, testLoc)))
	assert.True(t, draft.End.Equal(time.Date(2024, 3, 1, 11, 30, 0, 0, testLoc)))
	assert.False(t, draft.AllDay)
	assert.Same(t, workCalendar, draft.Calendar)
	assert.Equal(t, "Room 1", draft.Location)
	assert.Equal(t, model.AvailabilityNotSupported, draft.Availability)
	assert.Empty(t, draft.Alarms)
}

func TestBuilder_Build_DateOnlyTimed(t *testing.T) {
	b, _ := newTestBuilder()

	draft, err := b.Build(&model.EventDraftInput{
		Title: "Trip",
		Start: "2024-03-01",
		End:   "2024-03-02",
	}, testCalendars, homeCalendar)
	require.NoError(t, err)

	assert.True(t, draft.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, testLoc)))
	assert.True(t, draft.End.Equal(time.Date(2024, 3, 3, 0, 0, 0, 0, testLoc)))
}

func TestBuilder_Build_AllDay(t *testing.T) {
	b, _ := newTestBuilder()

	draft, err := b.Build(&model.EventDraftInput{
		Title:        "Holiday",
		Start:        "2024-03-01T15:00:00",
		End:          "2024-03-01",
		IsAllDay:     true,
		Availability: ptr(model.AvailabilityFree),
	}, testCalendars, homeCalendar)
	require.NoError(t, err)

	assert.True(t, draft.AllDay)
	assert.True(t, draft.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, testLoc)))
	assert.True(t, draft.End.Equal(time.Date(2024, 3, 1, 23, 59, 59, 0, testLoc)))
	assert.Equal(t, model.AvailabilityFree, draft.Availability)
}

func TestBuilder_Build_InvalidRange(t *testing.T) {
	b, _ := newTestBuilder()

	_, err := b.Build(&model.EventDraftInput{
		Title: "Backwards",
		Start: "2024-03-01T11:00:00",
		End:   "2024-03-01T10:00:00",
	}, testCalendars, homeCalendar)
	assert.ErrorIs(t, err, temporal.ErrInvalidRange)

	_, err = b.Build(&model.EventDraftInput{
		Title:    "Backwards",
		Start:    "2024-03-02",
		End:      "2024-03-01",
		IsAllDay: true,
	}, testCalendars, homeCalendar)
	assert.ErrorIs(t, err, temporal.ErrInvalidRange)
}

func TestBuilder_Build_UnknownCalendarUsesDefault(t *testing.T) {
	b, logs := newTestBuilder()

	draft, err := b.Build(&model.EventDraftInput{
		Title:    "Call",
		Start:    "2024-03-01T10:00:00",
		End:      "2024-03-01T11:00:00",
		Calendar: "Gym",
	}, testCalendars, homeCalendar)
	require.NoError(t, err)

	assert.Same(t, homeCalendar, draft.Calendar)
	assert.Equal(t, 1, logs.FilterMessage("calendar not found, using default").Len())
}

func TestBuilder_Build_Alarms(t *testing.T) {
	b, logs := newTestBuilder()

	draft, err := b.Build(&model.EventDraftInput{
		Title:    "Flight",
		Start:    "2024-03-01T10:00:00",
		End:      "2024-03-01T12:00:00",
		Location: "Airport",
		Alarms: []model.AlarmInput{
			{Type: "relative", Minutes: ptr(15), Sound: "glass"},
			{Type: "absolute", DateTime: "2024-03-01T08:00:00Z", Email: "me@example.com"},
			{Type: "absolute", DateTime: "2024-03-01"},
			{Type: "absolute", DateTime: "soon"},
			{Type: "proximity", Latitude: ptr(52.5), Longitude: ptr(13.4), Proximity: "leave", Radius: ptr(250.0), Title: "Home"},
			{Type: "proximity", Latitude: ptr(52.5)},
			{Type: "proximity", Latitude: ptr(1.0), Longitude: ptr(2.0)},
			{Type: "relative", Minutes: ptr(5), Sound: "Gong", Email: "not an address"},
			{Type: "relative"},
			{Type: "carrier-pigeon"},
		},
	}, testCalendars, homeCalendar)
	require.NoError(t, err)
	require.Len(t, draft.Alarms, 5)

	rel, ok := draft.Alarms[0].(model.RelativeAlarm)
	require.True(t, ok)
	assert.Equal(t, -900, rel.OffsetSeconds)
	require.NotNil(t, rel.Sound)
	assert.Equal(t, model.Sound("Glass"), *rel.Sound)

	abs, ok := draft.Alarms[1].(model.AbsoluteAlarm)
	require.True(t, ok)
	assert.True(t, abs.At.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "me@example.com", abs.NotifyEmail)

	prox, ok := draft.Alarms[2].(model.ProximityAlarm)
	require.True(t, ok)
	assert.Equal(t, "Home", prox.Title)
	assert.Equal(t, model.ProximityLeave, prox.Trigger)
	assert.Equal(t, 250.0, prox.RadiusMeters)

	def, ok := draft.Alarms[3].(model.ProximityAlarm)
	require.True(t, ok)
	assert.Equal(t, "Airport", def.Title)
	assert.Equal(t, model.ProximityEnter, def.Trigger)
	assert.Equal(t, 100.0, def.RadiusMeters)

	kept, ok := draft.Alarms[4].(model.RelativeAlarm)
	require.True(t, ok)
	assert.Equal(t, -300, kept.OffsetSeconds)
	assert.Nil(t, kept.Sound)
	assert.Empty(t, kept.NotifyEmail)

	assert.Equal(t, 5, logs.FilterMessage("skipping alarm").Len())
	assert.Equal(t, 1, logs.FilterMessage("ignoring unknown alarm sound").Len())
	assert.Equal(t, 1, logs.FilterMessage("ignoring alarm email").Len())
}

func TestBuilder_Build_ProximityTitleFallback(t *testing.T) {
	b, _ := newTestBuilder()

	draft, err := b.Build(&model.EventDraftInput{
		Title:  "Walk",
		Start:  "2024-03-01T10:00:00",
		End:    "2024-03-01T11:00:00",
		Alarms: []model.AlarmInput{{Type: "Proximity", Latitude: ptr(0.0), Longitude: ptr(0.0), Radius: ptr(-5.0)}},
	}, testCalendars, homeCalendar)
	require.NoError(t, err)
	require.Len(t, draft.Alarms, 1)

	prox := draft.Alarms[0].(model.ProximityAlarm)
	assert.Equal(t, "Location", prox.Title)
	assert.Equal(t, 100.0, prox.RadiusMeters)
}

func TestBuilder_Build_ProximityCoordinatesOutOfRange(t *testing.T) {
	b, logs := newTestBuilder()

	draft, err := b.Build(&model.EventDraftInput{
		Title:  "Walk",
		Start:  "2024-03-01T10:00:00",
		End:    "2024-03-01T11:00:00",
		Alarms: []model.AlarmInput{{Type: "proximity", Latitude: ptr(91.0), Longitude: ptr(0.0)}},
	}, testCalendars, homeCalendar)
	require.NoError(t, err)

	assert.Empty(t, draft.Alarms)
	assert.Equal(t, 1, logs.FilterMessage("skipping alarm").Len())
}

func TestBuilder_Build_RelativeMinutesOutOfRange(t *testing.T) {
	b, logs := newTestBuilder()

	draft, err := b.Build(&model.EventDraftInput{
		Title: "Launch",
		Start: "2024-03-01T10:00:00",
		End:   "2024-03-01T11:00:00",
		Alarms: []model.AlarmInput{
			{Type: "relative", Minutes: ptr(40_000_000)},
			{Type: "relative", Minutes: ptr(-40_000_000)},
			{Type: "relative", Minutes: ptr(maxAlarmMinutes)},
		},
	}, testCalendars, homeCalendar)
	require.NoError(t, err)
	require.Len(t, draft.Alarms, 1)

	rel := draft.Alarms[0].(model.RelativeAlarm)
	assert.Equal(t, -maxAlarmMinutes*60, rel.OffsetSeconds)
	assert.GreaterOrEqual(t, int64(rel.OffsetSeconds), int64(math.MinInt32))

	skipped := logs.FilterMessage("skipping alarm").All()
	require.Len(t, skipped, 2)
	for _, entry := range skipped {
		assert.Contains(t, entry.ContextMap()["error"], errMinutesRange.Error())
	}
}

func TestBuilder_Build_UnknownSoundListsKnownSounds(t *testing.T) {
	b, logs := newTestBuilder()

	_, err := b.Build(&model.EventDraftInput{
		Title:  "Call",
		Start:  "2024-03-01T10:00:00",
		End:    "2024-03-01T11:00:00",
		Alarms: []model.AlarmInput{{Type: "relative", Minutes: ptr(1), Sound: "Gong"}},
	}, testCalendars, homeCalendar)
	require.NoError(t, err)

	entries := logs.FilterMessage("ignoring unknown alarm sound").All()
	require.Len(t, entries, 1)
	assert.Equal(t, model.KnownSounds(), entries[0].ContextMap()["known"])
}
