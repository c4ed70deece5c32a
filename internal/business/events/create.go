package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/calendar-engine/internal/database"
	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"golang.org/x/sync/errgroup"
)

func (s *Service) CreateEvent(ctx context.Context, userID int64, input *model.EventDraftInput) (*model.Event, error) {
	if err := s.checkAccess(ctx, userID); err != nil {
		return nil, err
	}

	var (
		calendars       []*model.Calendar
		defaultCalendar *model.Calendar
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		calendars, err = s.calendars.GetCalendars(gctx, s.db, userID)
		if err != nil {
			return &model.StoreError{Op: "list calendars", Err: fmt.Errorf("calendars.GetCalendars: %w", err)}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		defaultCalendar, err = s.calendars.GetDefaultCalendar(gctx, s.db, userID)
		if err != nil && !errors.Is(err, model.ErrNoRecord) {
			return &model.StoreError{Op: "default calendar", Err: fmt.Errorf("calendars.GetDefaultCalendar: %w", err)}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	draft, err := s.builder.Build(input, calendars, defaultCalendar)
	if err != nil {
		return nil, err
	}

	var id string
	if err := database.WithTx(ctx, s.db, func(tx database.Tx) error {
		var err error
		id, err = s.events.CreateEvent(ctx, tx, draft)
		if err != nil {
			return fmt.Errorf("events.CreateEvent: %w", err)
		}
		return nil
	}); err != nil {
		return nil, &model.StoreError{Op: "save event", Err: err}
	}

	s.logger.Infow("event created",
		"user", userID,
		"id", id,
		"calendar", draft.Calendar.Title,
		"alarms", len(draft.Alarms),
	)

	return &model.Event{
		ID:            id,
		CalendarID:    draft.Calendar.ID,
		CalendarTitle: draft.Calendar.Title,
		Title:         draft.Title,
		Location:      draft.Location,
		Notes:         draft.Notes,
		URL:           draft.URL,
		Start:         draft.Start,
		End:           draft.End,
		AllDay:        draft.AllDay,
		Status:        model.EventStatusNone,
		Availability:  draft.Availability,
		Alarms:        draft.Alarms,
	}, nil
}
