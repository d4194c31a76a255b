package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/sidekick/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", s.Provider)
	assert.Equal(t, 0.7, s.Temperature)
	assert.Equal(t, int64(2048), s.MaxTokens)
	assert.Equal(t, "data", s.DataDir)
	assert.Equal(t, 50, s.MaxHistory)
	assert.Equal(t, 10, s.HistoryContext)
	assert.Equal(t, 30, s.CheckIntervalMinutes)
	assert.Equal(t, 10, s.DiscoveryLimit)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SIDEKICK_PROVIDER", "anthropic")
	t.Setenv("SIDEKICK_API_KEY", "sk-test")
	t.Setenv("SIDEKICK_MAX_HISTORY", "5")
	t.Setenv("SIDEKICK_LOG_LEVEL", "debug")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", s.Provider)
	assert.Equal(t, "sk-test", s.APIKey)
	assert.Equal(t, 5, s.MaxHistory)
	assert.Equal(t, logging.LogLevelDebug, s.LogLevelValue())
}

func TestLoad_CustomEnvPrefix(t *testing.T) {
	t.Setenv("MYAPP_PROVIDER", "openai")

	s, err := Load(func(o *Options) { o.EnvPrefix = "MYAPP" })
	require.NoError(t, err)
	assert.Equal(t, "openai", s.Provider)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidekick.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: openai\nmodel: gpt-4o-mini\ndiscovery_limit: 3\n"), 0o644))

	s, err := Load(func(o *Options) { o.ConfigFile = path })
	require.NoError(t, err)

	assert.Equal(t, "openai", s.Provider)
	assert.Equal(t, "gpt-4o-mini", s.Model)
	assert.Equal(t, 3, s.DiscoveryLimit)
	assert.Equal(t, "data", s.DataDir, "unset keys keep their defaults")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(func(o *Options) {
		o.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml")
	})
	require.Error(t, err, "an explicitly named config file must exist")
}

func TestModelConfigBridge(t *testing.T) {
	s := &Settings{Provider: "gemini", Model: "gemini-2.0-flash", APIKey: "k", Temperature: 0.3, MaxTokens: 512}
	cfg := s.ModelConfig()
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, int64(512), cfg.MaxTokens)
}

func TestLogLevelValue(t *testing.T) {
	tests := []struct {
		in   string
		want logging.LogLevel
	}{
		{"debug", logging.LogLevelDebug},
		{"INFO", logging.LogLevelInfo},
		{"warn", logging.LogLevelWarn},
		{"warning", logging.LogLevelWarn},
		{"error", logging.LogLevelError},
		{"bogus", logging.LogLevelInfo},
	}
	for _, tt := range tests {
		s := &Settings{LogLevel: tt.in}
		assert.Equal(t, tt.want, s.LogLevelValue(), tt.in)
	}
}
