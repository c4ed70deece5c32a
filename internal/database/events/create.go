package events

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/calendar-engine/internal/database"
	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/google/uuid"
)

// CreateEvent saves the draft with its alarms and returns the new event id.
// q should be a transaction so that an event is never stored without its alarms.
func (*Repository) CreateEvent(ctx context.Context, q database.Queryable, draft *model.EventDraft) (string, error) {
	id := uuid.NewString()

	qb := database.PSQL.
		Insert(database.EventsTable).
		Columns(
			"id",
			"calendar_id",
			"title",
			"location",
			"notes",
			"url",
			"start_date",
			"end_date",
			"all_day",
			"status",
			"availability",
		).
		Values(
			id,
			draft.Calendar.ID,
			draft.Title,
			draft.Location,
			draft.Notes,
			draft.URL,
			draft.Start,
			draft.End,
			draft.AllDay,
			int(model.EventStatusNone),
			int(draft.Availability),
		)

	if _, err := q.Exec(ctx, qb); err != nil {
		return "", fmt.Errorf("SQL request: %w", err)
	}

	if len(draft.Alarms) == 0 {
		return id, nil
	}

	ab := database.PSQL.
		Insert(database.EventAlarmsTable).
		Columns("event_id", "position", "kind", "offset_seconds", "fire_at", "proximity", "sound", "email")

	for i, a := range draft.Alarms {
		row, err := alarmRow(id, i, a)
		if err != nil {
			return "", fmt.Errorf("alarm %d: %w", i, err)
		}
		ab = ab.Values(row...)
	}

	if _, err := q.Exec(ctx, ab); err != nil {
		return "", fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
