package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/api"
	events_service "github.com/SergeyKozhin/calendar-engine/internal/business/events"
	"github.com/SergeyKozhin/calendar-engine/internal/config"
	"github.com/SergeyKozhin/calendar-engine/internal/database"
	"github.com/SergeyKozhin/calendar-engine/internal/database/calendars"
	"github.com/SergeyKozhin/calendar-engine/internal/database/events"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/jwt"
	"github.com/SergeyKozhin/calendar-engine/internal/redis"
	"github.com/SergeyKozhin/calendar-engine/migrations"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

type serveCommand struct {
	logger *zap.SugaredLogger
}

func (c *serveCommand) Execute([]string) error {
	ctx := context.Background()
	logger := c.logger

	loc, err := config.Location()
	if err != nil {
		return err
	}

	jwts := jwt.NewManager(config.Secret(), config.JwtTTL())

	redisPool := redis.NewRedisPool(config.RedisURL(), logger)
	access := redis.NewAccessRepository(redisPool)

	db, err := database.NewPGX(ctx, config.PostgresURL(), logger)
	if err != nil {
		return fmt.Errorf("unable to initialize db: %w", err)
	}

	eventsService := events_service.NewService(
		db,
		logger,
		loc,
		access,
		calendars.NewRepository(),
		events.NewRepository(),
	)

	a, err := api.NewApi(logger, loc, jwts, access, eventsService)
	if err != nil {
		return fmt.Errorf("unable to initialize api: %w", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		return fmt.Errorf("error initiating server logger: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + config.Port(),
		Handler:           a,
		ErrorLog:          errLogger,
		ReadHeaderTimeout: 10 * time.Second,
	}

	closer.Bind(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("server shutdown", "err", err)
		}
	})

	go func() {
		logger.Infow("Started server", "port", config.Port(), "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("server error", "err", err)
			closer.Close()
		}
	}()

	closer.Hold()
	return nil
}

type tokenCommand struct {
	User int64 `long:"user" description:"User id to issue the token for" required:"true"`
}

func (c *tokenCommand) Execute([]string) error {
	token, err := jwt.NewManager(config.Secret(), config.JwtTTL()).CreateToken(c.User)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, token)
	return err
}

type migrateCommand struct {
	logger *zap.SugaredLogger
}

func (c *migrateCommand) Execute([]string) error {
	ctx := context.Background()

	all, err := migrations.All()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	db, err := database.NewPGX(ctx, config.PostgresURL(), c.logger)
	if err != nil {
		return fmt.Errorf("unable to initialize db: %w", err)
	}

	for _, m := range all {
		if _, err := db.ExecRaw(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		c.logger.Infow("migration applied", "name", m.Name)
	}

	return nil
}
