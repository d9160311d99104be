// Package telemetry wires up structured logging for the engine: one
// zerolog logger, configured once at startup, passed down to every
// component that needs to report progress or a non-fatal error.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the narrow interface components depend on, so tests can
// substitute a silent or buffering logger without pulling in zerolog.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// ZerologLogger adapts zerolog.Logger to Logger.
type ZerologLogger struct {
	log zerolog.Logger
}

// New builds a ZerologLogger writing to w. When verbose is false, only
// warnings and errors are emitted.
func New(w io.Writer, verbose bool) *ZerologLogger {
	level := zerolog.InfoLevel
	if !verbose {
		level = zerolog.WarnLevel
	}
	log := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &ZerologLogger{log: log}
}

// NewStderr builds a ZerologLogger writing console-formatted output to
// stderr, the destination every CLI diagnostic in this engine uses.
func NewStderr(verbose bool) *ZerologLogger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return New(console, verbose)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

// Fatalf prints a single-line "feature: <err>" diagnostic to stderr and
// exits with status 1 — the fmt.Fprintf(os.Stderr, ...) + os.Exit(1)
// pattern, collapsed to one call site so every fatal CLI error prints
// the same way.
func Fatalf(err error) {
	fmt.Fprintf(os.Stderr, "feature: %v\n", err)
	os.Exit(1)
}
