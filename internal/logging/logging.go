package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup creates the process logger, sets it as the default, and returns it.
// level accepts "debug", "info", "warn" and "error" (case-insensitive) and
// falls back to info. format "json" selects the JSON handler; anything else
// logs text.
func Setup(level, format string) *slog.Logger {
	return New(os.Stderr, level, format)
}

// New is Setup with an explicit destination.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler).With("service", "menuboard")
	slog.SetDefault(logger)
	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
