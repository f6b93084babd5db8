package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a configured level name into a slog.Level.
// Matching is case-insensitive.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// Setup initializes the application's logging system. It creates a structured
// JSON logger writing to stdout with the given level and sets it as the
// default logger, so package-level slog functions share the configuration.
//
// An unknown level falls back to info and is reported as a warning on the
// new logger rather than as an error.
func Setup(level string) (*slog.Logger, error) {
	return setup(os.Stdout, level)
}

func setup(out io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if err != nil {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "info")
	}

	return logger, nil
}
