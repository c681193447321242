package crawler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/5l1v3r1/linkcheck/internal/config"
)

// BuildLogger constructs the slog logger the engine and CLI share, per the
// logging configuration.
func BuildLogger(cfg config.LoggingConfig, out io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unsupported log level %q", cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Structured {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), nil
}
