package calendars

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/calendar-engine/internal/database"
	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/georgysavva/scany/pgxscan"
)

func (*Repository) GetCalendars(ctx context.Context, q database.Queryable, userID int64) ([]*model.Calendar, error) {
	qb := baseQuery.
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id")

	var dtos []*calendarDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Calendar, len(dtos))
	for i, d := range dtos {
		res[i] = mapToCalendar(d)
	}

	return res, nil
}

func (*Repository) GetDefaultCalendar(ctx context.Context, q database.Queryable, userID int64) (*model.Calendar, error) {
	qb := baseQuery.
		Where(sq.Eq{"user_id": userID, "is_default": true}).
		Limit(1)

	dto := &calendarDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if pgxscan.NotFound(err) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToCalendar(dto), nil
}
