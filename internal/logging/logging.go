// Package logging configures zerolog for the idremap CLI and provides
// context plumbing so every component logs through the same logger.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output format names accepted in configuration.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config controls how the logger is constructed.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Unparseable values fall back to info.
	Level string

	// Format selects console (human-readable) or json output.
	Format string

	// Out is the destination writer. Defaults to os.Stderr when nil.
	Out io.Writer
}

// NewLogger builds a zerolog.Logger from cfg.
func NewLogger(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// ComponentLogger returns a child logger tagged with a component name.
// Components use this to keep a stable "component" field across all events.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// WithContext attaches the logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none was attached. Callers never need to nil-check.
func FromContext(ctx context.Context) zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	return *logger
}
