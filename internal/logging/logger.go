// Package logging provides the structured logger passed to every pipeline stage.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with yojana specific fields
type Logger struct {
	zl zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level   string
	Format  string // json or console
	Output  io.Writer
	Service string
}

// New creates a new Logger with the given configuration
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var zl zerolog.Logger
	if cfg.Format == "json" {
		zl = zerolog.New(output)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		})
	}

	service := cfg.Service
	if service == "" {
		service = "yojana"
	}

	zl = zl.Level(parseLevel(cfg.Level)).With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Debug starts a debug message
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }

// Info starts an info message
func (l *Logger) Info() *zerolog.Event { return l.zl.Info() }

// Warn starts a warning message
func (l *Logger) Warn() *zerolog.Event { return l.zl.Warn() }

// Error starts an error message
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// With returns a child logger carrying the component name
func (l *Logger) With(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
