// Package logging configures the process-wide structured logger.
//
// All stackinit output intended for consumption by callers (paths, reports,
// export lines) goes to stdout; logs always go to stderr so that shell
// initialization code can capture results without filtering log noise.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// FormatText and FormatJSON are the supported log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Option is a functional option for configuring the default logger.
type Option func(*config)

type config struct {
	level  slog.Level
	format string
}

// WithLevel returns an Option that sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithFormat returns an Option that selects the log output format
// (FormatText or FormatJSON). Unknown values keep the text format.
func WithFormat(format string) Option {
	return func(c *config) {
		if format == FormatJSON {
			c.format = FormatJSON
		}
	}
}

// SetDefaultStructuredLogger installs a slog default logger writing to stderr,
// stamped with the application name and version.
func SetDefaultStructuredLogger(name, version string, opts ...Option) {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatText,
	}

	// LOG_LEVEL provides the baseline; explicit options win.
	if lvl, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		cfg.level = lvl
	}

	for _, opt := range opts {
		opt(cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level}

	var handler slog.Handler
	if cfg.format == FormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, hopts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, hopts)
	}

	logger := slog.New(handler).With(
		slog.String("app", name),
		slog.String("version", version),
	)
	slog.SetDefault(logger)
}

// ParseLevel maps a level name to a slog.Level. The second return value is
// false when the name is empty or unrecognized.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
