// Package wlog wires the solver's structured logger: a package-level
// zerolog.Logger writing to stderr through a zerolog.ConsoleWriter. The
// runner logs the initial solution at Debug and the run summary and
// interrupts at Info; the CLI logs a failed run at Error before it exits.
// No per-turn or new-best-found events are logged.
package wlog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Logger is the package-wide logger every component logs through. Init
// replaces it; until Init is called it defaults to Info level on stderr.
var Logger = New("info", os.Stderr)

// New builds a zerolog.Logger writing to w through a ConsoleWriter, at the
// given level name ("debug", "info", "warn", "error"; unknown names fall
// back to "info").
func New(levelName string, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: timeFormat,
		NoColor:    true,
	}
	return zerolog.New(console).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Init replaces the package-level Logger, called once from cmd/wvcpsolve's
// root command after flags are parsed.
func Init(levelName string) {
	zerolog.TimeFieldFormat = timeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	Logger = New(levelName, os.Stderr)
}
