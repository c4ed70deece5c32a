package api

import (
	"context"
	"net/http"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Api struct {
	handler http.Handler
	logger  *zap.SugaredLogger
	loc     *time.Location

	jwts          jwtManager
	access        accessRepository
	eventsService eventsService
}

type jwtManager interface {
	CreateToken(id int64) (string, error)
	GetIdFromToken(token string) (int64, error)
}

type accessRepository interface {
	Grant(ctx context.Context, userID int64) error
	Revoke(ctx context.Context, userID int64) error
}

type eventsService interface {
	SearchEvents(ctx context.Context, userID int64, query *model.EventsQuery) ([]*model.Event, error)
	CreateEvent(ctx context.Context, userID int64, input *model.EventDraftInput) (*model.Event, error)
	ExportEvents(ctx context.Context, userID int64, query *model.EventsQuery) ([]byte, error)
	ListCalendars(ctx context.Context, userID int64) ([]*model.Calendar, error)
}

func NewApi(
	logger *zap.SugaredLogger,
	loc *time.Location,
	jwts jwtManager,
	access accessRepository,
	eventsService eventsService,
) (*Api, error) {
	a := &Api{
		logger:        logger,
		loc:           loc,
		jwts:          jwts,
		access:        access,
		eventsService: eventsService,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.With(a.auth).Route("/", func(r chi.Router) {
		r.Route("/access", func(r chi.Router) {
			r.Post("/", a.grantAccessHandler)
			r.Delete("/", a.revokeAccessHandler)
		})

		r.Get("/calendars", a.listCalendarsHandler)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", a.searchEventsHandler)
			r.Post("/", a.createEventHandler)
			r.Get("/export", a.exportEventsHandler)
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
