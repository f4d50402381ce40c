package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the process-wide slog default: JSON to stdout,
// level taken from config ("debug", "info", "warn", "error").
func Init(level string) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	slog.SetDefault(slog.New(h))
}

// With returns a child logger scoped to a component name.
func With(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// Fatal logs at error level and exits. Only for startup failures;
// request handlers must return errors instead.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
