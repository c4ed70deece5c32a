package events

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/calendar-engine/internal/database"
	"github.com/SergeyKozhin/calendar-engine/internal/model"
)

// GetEvents returns events of the given calendars overlapping [From, To),
// ordered by start.
func (r *Repository) GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	qb := baseQuery.
		Where(sq.Lt{"e.start_date": filter.To}).
		Where(sq.Gt{"e.end_date": filter.From}).
		Where(sq.Eq{"e.calendar_id": filter.CalendarIDs}).
		OrderBy("e.start_date", "e.id")

	var dtos []*eventDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Event, len(dtos))
	ids := make([]string, len(dtos))
	byID := make(map[string]*model.Event, len(dtos))
	for i, d := range dtos {
		res[i] = mapToEvent(d)
		ids[i] = d.ID
		byID[d.ID] = res[i]
	}

	if len(ids) == 0 {
		return res, nil
	}

	if err := r.attachAlarms(ctx, q, ids, byID); err != nil {
		return nil, err
	}

	return res, nil
}

func (*Repository) attachAlarms(ctx context.Context, q database.Queryable, ids []string, byID map[string]*model.Event) error {
	qb := alarmsQuery.
		Where(sq.Eq{"event_id": ids}).
		OrderBy("event_id", "position")

	var dtos []*alarmDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	for _, d := range dtos {
		alarm, err := mapToAlarm(d)
		if err != nil {
			return fmt.Errorf("map alarm of %v: %w", d.EventID, err)
		}

		if e, ok := byID[d.EventID]; ok {
			e.Alarms = append(e.Alarms, alarm)
		}
	}

	return nil
}
