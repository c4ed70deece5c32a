package database

import sq "github.com/Masterminds/squirrel"

// PSQL строит запросы с плейсхолдерами вида $1.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	CalendarsTable   = "calendars"
	EventsTable      = "events"
	EventAlarmsTable = "event_alarms"
)
