// Package observability provides the structured logger and the telemetry
// sinks the dashboard services record into.
package observability

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LoggerOptions configure NewLogger.
type LoggerOptions struct {
	Service string
	Version string
	// Level is a zerolog level name. Unknown or empty values mean info.
	Level string
	// Format is "json" (default) or "console".
	Format string
	Output io.Writer
}

// NewLogger builds the process logger.
func NewLogger(opts LoggerOptions) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Version != "" {
		ctx = ctx.Str("version", opts.Version)
	}
	return ctx.Logger()
}
