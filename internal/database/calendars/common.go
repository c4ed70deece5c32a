package calendars

import (
	"github.com/SergeyKozhin/calendar-engine/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"title",
		"source_title",
		"color",
		"editable",
		"subscribed",
		"is_default",
	).
	From(database.CalendarsTable)
