// Package logging configures the process-wide slog logger.
//
// Console output goes to stderr as text or JSON. When a file is configured,
// records are also written there as JSON through a rotating writer.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "POSTER_LOG_LEVEL"
	EnvFormat = "POSTER_LOG_FORMAT"
	EnvSource = "POSTER_LOG_SOURCE"
	EnvFile   = "POSTER_LOG_FILE"
)

// Options controls logger construction.
type Options struct {
	Level     string `yaml:"level"`  // debug|info|warn|error
	Format    string `yaml:"format"` // text|json
	AddSource bool   `yaml:"source"`
	File      string `yaml:"file"` // optional rotated JSON log
}

// FromEnv reads Options from the environment, defaulting to info/text.
func FromEnv() Options {
	return Options{
		Level:     getenv(EnvLevel, "info"),
		Format:    getenv(EnvFormat, "text"),
		AddSource: isTrue(os.Getenv(EnvSource)),
		File:      os.Getenv(EnvFile),
	}
}

// New builds a logger writing to console.
func New(opts Options, console io.Writer) *slog.Logger {
	ho := &slog.HandlerOptions{Level: ParseLevel(opts.Level), AddSource: opts.AddSource}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		h = slog.NewJSONHandler(console, ho)
	} else {
		h = slog.NewTextHandler(console, ho)
	}

	if f := strings.TrimSpace(opts.File); f != "" {
		w := &lumberjack.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		h = fanout{h, slog.NewJSONHandler(w, ho)}
	}

	return slog.New(h).With(slog.String("app", "poster"))
}

// Init installs a logger built from opts as slog.Default and returns it.
func Init(opts Options) *slog.Logger {
	l := New(opts, os.Stderr)
	slog.SetDefault(l)
	return l
}

// WithComponent returns the default logger tagged with a component name.
func WithComponent(name string) *slog.Logger {
	return slog.Default().With(slog.String("component", name))
}

// ParseLevel maps a level name to slog.Level; unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// fanout sends each record to every handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
