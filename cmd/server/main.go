package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"lcm/internal/platform/config"
	"lcm/internal/platform/httpserver"
	"lcm/internal/platform/logger"
	platformmetrics "lcm/internal/platform/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := platformmetrics.NewRegistry()
	app, err := newApp(cfg, log, reg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := httpserver.New(cfg.Addr, app.Router(cfg, reg))
	log.Info("starting lcm",
		"addr", cfg.Addr,
		"default_lang", cfg.DefaultLanguage,
		"templates", app.renderer.Templates().Version,
	)
	return httpserver.Run(ctx, srv, cfg.ShutdownTimeout, log)
}
