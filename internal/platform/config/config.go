package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lcm/pkg/domain"
)

// Log output formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	DefaultLanguage domain.Language
	// TemplatePath overrides the embedded template document when set.
	TemplatePath    string
	LogFormat       string
	LogLevel        slog.Level
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
	// AuditBuffer is the async audit buffer size; 0 writes synchronously.
	AuditBuffer     int
	AuditSampleRate float64
}

// Load reads an optional .env file and then builds the config from the
// environment. Variables already set in the environment win over the file.
func Load(envFiles ...string) (Server, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Server{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:            getenv("LCM_ADDR", ":8080"),
		TemplatePath:    os.Getenv("LCM_TEMPLATE_PATH"),
		LogFormat:       strings.ToLower(getenv("LCM_LOG_FORMAT", LogFormatJSON)),
		MetricsEnabled:  true,
		ShutdownTimeout: 10 * time.Second,
		AuditBuffer:     1024,
		AuditSampleRate: 1,
	}

	lang := getenv("LCM_DEFAULT_LANG", string(domain.DefaultLanguage))
	cfg.DefaultLanguage = domain.Language(lang)
	if !cfg.DefaultLanguage.IsValid() {
		return Server{}, fmt.Errorf("LCM_DEFAULT_LANG: unsupported language %q", lang)
	}

	if cfg.LogFormat != LogFormatJSON && cfg.LogFormat != LogFormatText {
		return Server{}, fmt.Errorf("LCM_LOG_FORMAT: want json or text, got %q", cfg.LogFormat)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LCM_LOG_LEVEL", "info"))); err != nil {
		return Server{}, fmt.Errorf("LCM_LOG_LEVEL: %w", err)
	}

	if v := os.Getenv("LCM_METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Server{}, fmt.Errorf("LCM_METRICS_ENABLED: %w", err)
		}
		cfg.MetricsEnabled = enabled
	}
	if v := os.Getenv("LCM_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Server{}, fmt.Errorf("LCM_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if v := os.Getenv("LCM_AUDIT_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Server{}, fmt.Errorf("LCM_AUDIT_BUFFER: want a non-negative integer, got %q", v)
		}
		cfg.AuditBuffer = n
	}
	if v := os.Getenv("LCM_AUDIT_SAMPLE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 || rate > 1 {
			return Server{}, fmt.Errorf("LCM_AUDIT_SAMPLE_RATE: want a value in [0,1], got %q", v)
		}
		cfg.AuditSampleRate = rate
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
