package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a JSON logger, or a console logger at debug level in
// development. The "cli" environment logs warnings and above to stderr so
// command output on stdout stays machine readable.
func NewLogger(appEnv string) zerolog.Logger {
	return newLogger(appEnv, os.Stdout, os.Stderr)
}

func newLogger(appEnv string, stdout, stderr io.Writer) zerolog.Logger {
	switch appEnv {
	case "cli":
		return zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
			Level(zerolog.WarnLevel).
			With().
			Timestamp().
			Logger()
	case "development":
		return zerolog.New(zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().
			Timestamp().
			Str("service", "civicfund").
			Logger()
	}
	return zerolog.New(stdout).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", "civicfund").
		Logger()
}
