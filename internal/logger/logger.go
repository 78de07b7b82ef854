// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the root logger instance. Packages derive component loggers
// from it via WithComponent.
var Logger zerolog.Logger

func init() {
	Logger = newLogger(os.Stderr, true)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = Logger
}

// Init reconfigures the root logger with the given level name. Unknown
// levels fall back to info. When pretty is true and stderr is a terminal,
// output uses the console writer.
func Init(level string, pretty bool) {
	zerolog.SetGlobalLevel(parseLevel(level))
	Logger = newLogger(os.Stderr, pretty)
	log.Logger = Logger
}

func newLogger(out *os.File, pretty bool) zerolog.Logger {
	var w io.Writer = out
	if pretty && isatty.IsTerminal(out.Fd()) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent returns a child logger tagged with a component name.
// The pointer form keeps chained calls usable directly on the result.
func WithComponent(name string) *zerolog.Logger {
	l := Logger.With().Str("component", name).Logger()
	return &l
}
