// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Config selects the output format and minimum level.
type Config struct {
	Level  string // debug, info, warn, error; defaults to info
	Format string // json or text; defaults to text
}

// New creates a *slog.Logger per the config and installs it as the default.
//
// Format "json" produces structured JSON output for scheduled runs whose
// output lands in a journal. Format "text" produces human-readable output
// with source info for interactive use. Output is always os.Stderr, keeping
// stdout free for dry-run payloads.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !strings.EqualFold(cfg.Format, "json"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
