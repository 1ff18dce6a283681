// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logger := logging.New()                          // level from LOG_LEVEL env
//	logger := logging.NewWithLevel(slog.LevelDebug)  // explicit override
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a colored slog logger at the level specified by the LOG_LEVEL
// env var (default: INFO). Also installs it as slog's default, so package-
// level slog calls share the same handler.
func New() *slog.Logger {
	return NewWithLevel(levelFromEnv())
}

// NewWithLevel returns a colored slog logger at the given level.
func NewWithLevel(level slog.Level) *slog.Logger {
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	)
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
