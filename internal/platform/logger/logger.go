package logger

import (
	"io"
	"log/slog"

	"lcm/internal/platform/config"
)

// New returns a structured logger writing to w in the configured format.
func New(w io.Writer, cfg config.Server) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler
	if cfg.LogFormat == config.LogFormatText {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", "lcm")
}
