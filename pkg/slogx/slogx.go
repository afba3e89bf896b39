package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelOff silences a logger entirely.
const LevelOff = slog.Level(12)

type Config struct {
	Service string
	Version string
	Env     string // "dev" adds source locations
	Level   string // debug, info, warn, error or off
	Format  string // json or text

	// Output defaults to os.Stderr; stdout belongs to command output.
	Output io.Writer
}

// New returns a configured slog.Logger and installs it as the default.
// Empty Service, Version and Env values are not attached.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	if level == LevelOff {
		out = io.Discard
	}

	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev",
		Level:     level,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	var attrs []any
	for _, kv := range [][2]string{{"service", cfg.Service}, {"version", cfg.Version}, {"env", cfg.Env}} {
		if kv[1] != "" {
			attrs = append(attrs, kv[0], kv[1])
		}
	}

	logger := slog.New(handler).With(attrs...)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "none", "silent":
		return LevelOff
	default:
		return slog.LevelInfo
	}
}
