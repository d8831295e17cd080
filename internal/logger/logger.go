// Package logger provides the configured zerolog logger shared by all commands.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"

	"tempowise/internal/config"
)

// New returns a logger for the given service name. Format "console" produces
// human-readable output; anything else produces JSON on stdout.
func New(serviceName string, cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName, cfg)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, serviceName string, cfg config.LogConfig) zerolog.Logger {
	zerolog.ErrorStackMarshaler = marshalStack

	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// ParseLevel maps a textual level to zerolog; unknown values fall back to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// marshalStack renders a stack for .Stack() events, attaching one at the log
// site when err does not carry its own.
func marshalStack(err error) interface{} {
	if _, ok := err.(stackTracer); !ok {
		err = pkgerrors.WithStack(err)
	}
	return zpkgerrors.MarshalStack(err)
}
