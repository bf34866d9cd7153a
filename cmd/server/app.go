package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"lcm/internal/guard"
	guardhandler "lcm/internal/guard/handler"
	guardmetrics "lcm/internal/guard/metrics"
	"lcm/internal/invariant"
	"lcm/internal/orchestrator"
	orchestratorhandler "lcm/internal/orchestrator/handler"
	orchestratormetrics "lcm/internal/orchestrator/metrics"
	"lcm/internal/platform/config"
	platformmetrics "lcm/internal/platform/metrics"
	"lcm/internal/platform/middleware"
	"lcm/internal/renderer"
	rendererhandler "lcm/internal/renderer/handler"
	renderermetrics "lcm/internal/renderer/metrics"
	"lcm/pkg/domain"
	"lcm/pkg/platform/audit/publisher"
	"lcm/pkg/platform/audit/store/memory"
	"lcm/pkg/platform/httputil"
	"lcm/pkg/platform/middleware/metadata"
	"lcm/pkg/platform/middleware/requesttime"
	"lcm/pkg/platform/middleware/version"
)

const requestTimeout = 10 * time.Second

// app holds the wired services for one process.
type app struct {
	logger       *slog.Logger
	guard        *guard.Guard
	renderer     *renderer.Renderer
	orchestrator *orchestrator.Service
	audit        *publisher.Publisher
	httpMetrics  *platformmetrics.Metrics
}

func newApp(cfg config.Server, log *slog.Logger, reg prometheus.Registerer) (*app, error) {
	templates, err := loadTemplates(cfg)
	if err != nil {
		return nil, err
	}

	g := guard.New(
		guard.WithLogger(log),
		guard.WithMetrics(guardmetrics.New(reg)),
	)
	r, err := renderer.New(templates,
		renderer.WithLogger(log),
		renderer.WithMetrics(renderermetrics.New(reg)),
	)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	pubOpts := []publisher.Option{
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithSampler(publisher.NewSampler(cfg.AuditSampleRate)),
		publisher.WithCircuitBreaker(publisher.NewCircuitBreaker(5, 30*time.Second)),
	}
	if cfg.AuditBuffer > 0 {
		pubOpts = append(pubOpts, publisher.WithAsyncBuffer(cfg.AuditBuffer))
	}
	pub := publisher.NewPublisher(memory.NewInMemoryStore(), pubOpts...)

	svc := orchestrator.New(g, r,
		orchestrator.WithAuditor(pub),
		orchestrator.WithLogger(log),
		orchestrator.WithMetrics(orchestratormetrics.New(reg)),
	)

	var httpMetrics *platformmetrics.Metrics
	if cfg.MetricsEnabled {
		httpMetrics = platformmetrics.New(reg)
	}

	return &app{
		logger:       log,
		guard:        g,
		renderer:     r,
		orchestrator: svc,
		audit:        pub,
		httpMetrics:  httpMetrics,
	}, nil
}

func loadTemplates(cfg config.Server) (*renderer.TemplateSet, error) {
	if cfg.TemplatePath == "" {
		return renderer.DefaultTemplates()
	}
	ts, err := renderer.LoadTemplateFile(cfg.TemplatePath, invariant.Default())
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	return ts, nil
}

// Router mounts the versioned API plus health and metrics.
func (a *app) Router(cfg config.Server, g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(a.logger))
	if a.httpMetrics != nil {
		r.Use(middleware.Latency(a.httpMetrics))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"templates": a.renderer.Templates().Version,
		})
	})
	if cfg.MetricsEnabled {
		r.Handle("/metrics", platformmetrics.Handler(g))
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(version.ExtractVersion(domain.APIVersionV1))
		v1.Use(middleware.Timeout(requestTimeout))
		v1.Use(middleware.ContentTypeJSON)
		orchestratorhandler.New(a.orchestrator, a.logger, cfg.DefaultLanguage).Register(v1)
		guardhandler.New(a.guard, a.logger).Register(v1)
		rendererhandler.New(a.renderer, a.logger).Register(v1)
	})
	return r
}

// Close drains the audit buffer.
func (a *app) Close() error {
	return a.audit.Close()
}
