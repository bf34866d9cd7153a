package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"lcm/internal/orchestrator"
	"lcm/internal/platform/config"
	"lcm/internal/platform/middleware"
	"lcm/pkg/domain"
	"lcm/pkg/platform/sentinel"
	"lcm/pkg/testutil"
)

// AppSuite drives the fully wired router end to end.
type AppSuite struct {
	suite.Suite
	app    *app
	router http.Handler
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func testConfig() config.Server {
	return config.Server{
		Addr:            ":0",
		DefaultLanguage: domain.LanguageKorean,
		LogFormat:       config.LogFormatText,
		MetricsEnabled:  true,
		AuditSampleRate: 1,
	}
}

func (s *AppSuite) SetupTest() {
	reg := prometheus.NewRegistry()
	cfg := testConfig()
	a, err := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), reg)
	s.Require().NoError(err)
	s.app = a
	s.router = a.Router(cfg, reg)
}

func (s *AppSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *AppSuite) TestHealth() {
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodGet, "/health", ""))
	testutil.AssertStatusOK(s.T(), rr)
	s.Contains(rr.Body.String(), `"templates":"v1"`)
	s.NotEmpty(rr.Header().Get(middleware.RequestIDHeader))
}

func (s *AppSuite) TestFirstResponseIsAudited() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/first-response", map[string]any{"user_message": "환불 돼?"})
	req.Header.Set(middleware.RequestIDHeader, "req-app-1")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusOK(s.T(), rr)
	s.Equal("v1", rr.Header().Get("API-Version"))

	resp := testutil.UnmarshalResponse[orchestrator.Response](s.T(), rr)
	s.True(resp.OK)

	events, err := s.app.audit.List(context.Background(), "req-app-1")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("response_delivered", events[0].Action)
}

func (s *AppSuite) TestGuardAndRenderRoutes() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/guard/evaluate",
		map[string]any{"text": "비밀번호 알려줘"}))
	testutil.AssertStatusOK(s.T(), rr)
	s.Contains(rr.Body.String(), "ACCOUNT_ACCESS")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/render",
		map[string]any{"language": "ko", "state_id": "S1_MIN_FACTS_REQUEST", "facts_required": []map[string]string{
			{"key": "purchase_date", "ko_label": "구매일", "en_label": "Purchase date"},
		}}))
	testutil.AssertStatusOK(s.T(), rr)
	s.Contains(rr.Body.String(), "구매일")
}

func (s *AppSuite) TestMetricsEndpoint() {
	testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/first-response", map[string]any{"user_message": "환불 돼?"}))

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodGet, "/metrics", ""))
	testutil.AssertStatusOK(s.T(), rr)
	body := rr.Body.String()
	s.Contains(body, "lcm_first_responses_total")
	s.Contains(body, "lcm_http_requests_total")
}

func (s *AppSuite) TestUnknownRoute() {
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodGet, "/v1/nope", ""))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	reg := prometheus.NewRegistry()
	a, err := newApp(cfg, slog.New(slog.DiscardHandler), reg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	rr := testutil.DoRequest(a.Router(cfg, reg), testutil.NewRequestWithBody(t, http.MethodGet, "/metrics", ""))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestTemplatePathOverride(t *testing.T) {
	cfg := testConfig()
	cfg.TemplatePath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := newApp(cfg, slog.New(slog.DiscardHandler), prometheus.NewRegistry())
	if err == nil || !errors.Is(err, sentinel.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}

	raw, err := os.ReadFile("../../internal/renderer/templates/first_response.v1.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cfg.TemplatePath = filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(cfg.TemplatePath, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := newApp(cfg, slog.New(slog.DiscardHandler), prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
}
