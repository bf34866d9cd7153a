package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcm/pkg/domain"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"LCM_ADDR", "LCM_DEFAULT_LANG", "LCM_TEMPLATE_PATH", "LCM_LOG_FORMAT",
		"LCM_LOG_LEVEL", "LCM_METRICS_ENABLED", "LCM_SHUTDOWN_TIMEOUT", "LCM_AUDIT_BUFFER", "LCM_AUDIT_SAMPLE_RATE"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, domain.LanguageKorean, cfg.DefaultLanguage)
	assert.Empty(t, cfg.TemplatePath)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 1024, cfg.AuditBuffer)
	assert.Equal(t, 1.0, cfg.AuditSampleRate)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LCM_ADDR", ":9090")
	t.Setenv("LCM_DEFAULT_LANG", "en")
	t.Setenv("LCM_LOG_FORMAT", "TEXT")
	t.Setenv("LCM_LOG_LEVEL", "debug")
	t.Setenv("LCM_METRICS_ENABLED", "false")
	t.Setenv("LCM_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LCM_AUDIT_BUFFER", "0")
	t.Setenv("LCM_AUDIT_SAMPLE_RATE", "0.25")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, domain.LanguageEnglish, cfg.DefaultLanguage)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0, cfg.AuditBuffer)
	assert.Equal(t, 0.25, cfg.AuditSampleRate)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LCM_DEFAULT_LANG", "fr"},
		{"LCM_LOG_FORMAT", "xml"},
		{"LCM_LOG_LEVEL", "loud"},
		{"LCM_METRICS_ENABLED", "maybe"},
		{"LCM_SHUTDOWN_TIMEOUT", "soon"},
		{"LCM_AUDIT_BUFFER", "-1"},
		{"LCM_AUDIT_SAMPLE_RATE", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	t.Setenv("LCM_ADDR", "")
	os.Unsetenv("LCM_ADDR")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LCM_ADDR=:7070\n"), 0o600))

	cfg, err := Load(path, filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
}
