// Package sysutil configures process-wide logging for the reader commands
// and holds the small environment helpers they share.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a LOG_LEVEL value to a zerolog level.
// Supported values (case-insensitive): debug, info, warn, error, fatal, panic.
// Anything else is info.
func ParseLevel(lvl string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLogLevel configures the global zerolog level.
func SetLogLevel(lvl string) {
	zerolog.SetGlobalLevel(ParseLevel(lvl))
}

// NewLogger returns a timestamped logger writing JSON lines to w, or
// human-readable lines when pretty is set.
func NewLogger(w io.Writer, pretty, noColor bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// SetupLogging applies the level, installs the logger as the global
// log.Logger and returns it. A truthy NO_COLOR disables console colours.
func SetupLogging(w io.Writer, level string, pretty bool) zerolog.Logger {
	SetLogLevel(level)
	l := NewLogger(w, pretty, IsTruthy(os.Getenv("NO_COLOR")))
	log.Logger = l
	return l
}

// IsTruthy reports whether an environment variable string should be considered true.
// Accepted values (case-insensitive): "1", "true", "yes", "y", "on".
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// FirstNonEmpty returns the first value that is not blank, so a command
// flag can override its configured default.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
