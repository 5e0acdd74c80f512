package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger with sane defaults for the bot.
// Development and verbose runs log at debug level; development also
// switches to the human-readable console writer.
func NewLogger(appEnv string, verbose bool) zerolog.Logger {
	return newLogger(os.Stdout, appEnv, verbose)
}

func newLogger(out io.Writer, appEnv string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" || verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}
