// Package logger configures the structured loggers used by menusync hosts.
package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"

	// EnvVarLogFormat selects "json" (default) or "text" output.
	EnvVarLogFormat = "LOG_FORMAT"
)

type config struct {
	module  string
	version string
	level   slog.Level
	text    bool
	out     io.Writer
}

// Option configures a logger built by New.
type Option func(*config)

// WithModule adds module and version attributes to every record.
func WithModule(module, version string) Option {
	return func(c *config) {
		c.module = module
		c.version = version
	}
}

// WithLevel sets the minimum level from its string form, see ParseLogLevel.
func WithLevel(level string) Option {
	return func(c *config) { c.level = ParseLogLevel(level) }
}

// WithText switches from JSON to logfmt-style text output.
func WithText() Option {
	return func(c *config) { c.text = true }
}

// WithWriter redirects output. Defaults to os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// FromEnv applies LOG_LEVEL and LOG_FORMAT.
func FromEnv() Option {
	return func(c *config) {
		if v, ok := os.LookupEnv(EnvVarLogLevel); ok {
			c.level = ParseLogLevel(v)
		}
		if strings.EqualFold(os.Getenv(EnvVarLogFormat), "text") {
			c.text = true
		}
	}
}

// New creates a structured logger. Source locations are added at debug level only.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo, out: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}

	ho := &slog.HandlerOptions{
		Level:     c.level,
		AddSource: c.level <= slog.LevelDebug,
	}
	var h slog.Handler
	if c.text {
		h = slog.NewTextHandler(c.out, ho)
	} else {
		h = slog.NewJSONHandler(c.out, ho)
	}

	l := slog.New(h)
	if c.module != "" {
		l = l.With("module", c.module, "version", c.version)
	}
	return l
}

// SetDefault builds a logger with New and installs it as slog's default.
func SetDefault(opts ...Option) *slog.Logger {
	l := New(opts...)
	slog.SetDefault(l)
	return l
}

// NewLogLogger adapts l to a standard library log.Logger writing at level,
// for APIs such as http.Server.ErrorLog that take one.
func NewLogLogger(l *slog.Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(l.Handler(), level)
}

// ParseLogLevel converts a level name to a slog.Level. Unrecognized names map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
