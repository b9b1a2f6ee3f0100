// Package logger builds the application's slog logger.
package logger

import (
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// New returns a logger writing to stderr. The local environment gets a
// colored human readable handler, every other environment gets JSON.
// level overrides the environment's default level when set.
func New(env, level string) *slog.Logger {
	return NewWithWriter(os.Stderr, env, level)
}

func NewWithWriter(w io.Writer, env, level string) *slog.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		lvl = defaultLevel(env)
	}

	if env == envLocal {
		return setupPrettySlog(w, lvl)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// Discard drops everything. Handy for commands that print their own output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func defaultLevel(env string) slog.Level {
	switch env {
	case envLocal, envDev:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func setupPrettySlog(w io.Writer, lvl slog.Level) *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: lvl},
	}
	return slog.New(opts.NewPrettyHandler(w))
}
