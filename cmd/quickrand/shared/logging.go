package shared

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger configures zerolog with human readable output on stderr.
func SetupLogger(debug bool) zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}, debug)
}

// SetupStructuredLogger configures zerolog for JSON output on stderr.
func SetupStructuredLogger(debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return newLogger(os.Stderr, debug)
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
