package events

import (
	"github.com/SergeyKozhin/calendar-engine/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"e.id::text AS id",
		"e.calendar_id",
		"c.title AS calendar_title",
		"e.title",
		"e.location",
		"e.notes",
		"e.url",
		"e.start_date",
		"e.end_date",
		"e.all_day",
		"e.status",
		"e.availability",
		"e.recurrence_rules",
	).
	From(database.EventsTable + " e").
	Join(database.CalendarsTable + " c ON c.id = e.calendar_id")

var alarmsQuery = database.PSQL.
	Select(
		"event_id::text AS event_id",
		"kind",
		"offset_seconds",
		"fire_at",
		"proximity",
		"sound",
		"email",
	).
	From(database.EventAlarmsTable)
