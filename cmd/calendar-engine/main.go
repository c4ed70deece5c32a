package main

import (
	"errors"
	"log"
	"os"

	"github.com/SergeyKozhin/calendar-engine/internal/config"
	"github.com/jessevdk/go-flags"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	parser := flags.NewParser(nil, flags.Default)
	parser.Name = "calendar-engine"

	parser.AddCommand("serve", "Start the HTTP server", "Serve the calendar events API.", &serveCommand{logger: logger})
	parser.AddCommand("token", "Issue an access token", "Print an access token for the given user id.", &tokenCommand{})
	parser.AddCommand("migrate", "Apply the database schema", "Apply the bundled SQL migrations.", &migrateCommand{logger: logger})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			closer.Close()
			os.Exit(0)
		}
		logger.Errorw("command failed", "err", err)
		closer.Exit(1)
	}

	closer.Close()
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
