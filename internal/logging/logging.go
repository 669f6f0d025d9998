// Package logging configures the process-wide slog logger.
//
// The interactive surface prints to stdout with fmt; slog carries the
// per-page and per-item diagnostics on stderr so they can be silenced or
// raised independently of the menu output.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init installs a text handler on stderr at the level selected by
// DMSWEEP_LOG_LEVEL (debug, info, warn, error). Defaults to warn so the
// interactive menu stays quiet unless asked otherwise.
func Init() {
	lvl := strings.ToLower(strings.TrimSpace(os.Getenv("DMSWEEP_LOG_LEVEL")))

	var level slog.Level
	switch lvl {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	case "warn", "warning", "":
		level = slog.LevelWarn
	default:
		level = slog.LevelWarn
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
