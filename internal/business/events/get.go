package events

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/temporal"
)

// SearchEvents returns the events overlapping the requested range that match
// the criteria, in store order.
func (s *Service) SearchEvents(ctx context.Context, userID int64, query *model.EventsQuery) ([]*model.Event, error) {
	if err := s.checkAccess(ctx, userID); err != nil {
		return nil, err
	}

	r, err := s.queryRange(query.Start, query.End)
	if err != nil {
		return nil, err
	}

	calendars, err := s.calendars.GetCalendars(ctx, s.db, userID)
	if err != nil {
		return nil, &model.StoreError{Op: "list calendars", Err: fmt.Errorf("calendars.GetCalendars: %w", err)}
	}

	selected := selectCalendars(calendars, query.Criteria.Calendars)
	if len(selected) == 0 {
		s.logger.Debugw("no calendars selected", "user", userID, "calendars", query.Criteria.Calendars)
		return []*model.Event{}, nil
	}

	events, err := s.events.GetEvents(ctx, s.db, model.EventsFilter{
		From:        r.Start,
		To:          r.End,
		CalendarIDs: calendarIDs(selected),
	})
	if err != nil {
		return nil, &model.StoreError{Op: "fetch events", Err: fmt.Errorf("events.GetEvents: %w", err)}
	}

	return FilterEvents(events, query.Criteria), nil
}

func (s *Service) queryRange(rawStart, rawEnd string) (temporal.Range, error) {
	var start, end *temporal.Parsed

	if rawStart != "" {
		p, err := temporal.Parse(rawStart, s.loc)
		if err != nil {
			return temporal.Range{}, err
		}
		start = &p
	}

	if rawEnd != "" {
		p, err := temporal.Parse(rawEnd, s.loc)
		if err != nil {
			return temporal.Range{}, err
		}
		end = &p
	}

	return temporal.NormalizeQueryRange(start, end, s.now(), s.loc)
}
