package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

// Setup builds the application logger from the config and installs it as the
// zerolog global, so packages can log through zerolog/log.
func Setup(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "text" {
		// Pretty console output for development.
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	}

	log.Logger = logger
	return logger
}
