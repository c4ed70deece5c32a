package events

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/database"
	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"go.uber.org/zap"
)

type Service struct {
	db        database.PGX
	logger    *zap.SugaredLogger
	access    accessRepository
	calendars calendarsRepository
	events    eventsRepository
	builder   *Builder

	loc *time.Location
	now func() time.Time
}

type accessRepository interface {
	IsGranted(ctx context.Context, userID int64) (bool, error)
}

type calendarsRepository interface {
	GetCalendars(ctx context.Context, q database.Queryable, userID int64) ([]*model.Calendar, error)
	GetDefaultCalendar(ctx context.Context, q database.Queryable, userID int64) (*model.Calendar, error)
}

type eventsRepository interface {
	GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error)
	CreateEvent(ctx context.Context, q database.Queryable, draft *model.EventDraft) (string, error)
}

func NewService(
	db database.PGX,
	logger *zap.SugaredLogger,
	loc *time.Location,
	access accessRepository,
	calendars calendarsRepository,
	events eventsRepository,
) *Service {
	return &Service{
		db:        db,
		logger:    logger,
		access:    access,
		calendars: calendars,
		events:    events,
		builder:   NewBuilder(logger, loc),
		loc:       loc,
		now:       time.Now,
	}
}

// checkAccess must pass before anything is read from or written to the store.
func (s *Service) checkAccess(ctx context.Context, userID int64) error {
	granted, err := s.access.IsGranted(ctx, userID)
	if err != nil {
		return &model.StoreError{Op: "authorization", Err: fmt.Errorf("access.IsGranted: %w", err)}
	}

	if !granted {
		return model.ErrUnauthorized
	}

	return nil
}

func (s *Service) ListCalendars(ctx context.Context, userID int64) ([]*model.Calendar, error) {
	if err := s.checkAccess(ctx, userID); err != nil {
		return nil, err
	}

	calendars, err := s.calendars.GetCalendars(ctx, s.db, userID)
	if err != nil {
		return nil, &model.StoreError{Op: "list calendars", Err: fmt.Errorf("calendars.GetCalendars: %w", err)}
	}

	return calendars, nil
}
