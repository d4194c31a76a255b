// Package config loads application settings from the environment and an
// optional config file, bridging them to model and logging configuration.
// Environment variables use the SIDEKICK_ prefix (SIDEKICK_PROVIDER,
// SIDEKICK_API_KEY, ...), overriding file values.
package config

import (
	"fmt"
	"strings"

	"github.com/hupe1980/sidekick/logging"
	"github.com/hupe1980/sidekick/model"
	"github.com/spf13/viper"
)

// Settings is the full application configuration with documented defaults.
type Settings struct {
	// Generation backend
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens"`

	// Storage and memory
	DataDir        string `mapstructure:"data_dir"`
	MaxHistory     int    `mapstructure:"max_history"`
	HistoryContext int    `mapstructure:"history_context"`

	// Background discovery
	CheckIntervalMinutes int `mapstructure:"check_interval_minutes"`
	DiscoveryLimit       int `mapstructure:"discovery_limit"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Options configures Load.
type Options struct {
	// ConfigFile is an optional path to a yaml/toml/json settings file.
	ConfigFile string
	// EnvPrefix overrides the SIDEKICK environment prefix.
	EnvPrefix string
}

// Load reads settings from the environment (and ConfigFile when provided).
// A missing config file is not an error; a present but malformed one is.
func Load(optFns ...func(o *Options)) (*Settings, error) {
	opts := Options{EnvPrefix: "SIDEKICK"}
	for _, fn := range optFns {
		fn(&opts)
	}

	v := viper.New()
	v.SetDefault("provider", "gemini")
	v.SetDefault("model", "")
	v.SetDefault("api_key", "")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 2048)
	v.SetDefault("data_dir", "data")
	v.SetDefault("max_history", 50)
	v.SetDefault("history_context", 10)
	v.SetDefault("check_interval_minutes", 30)
	v.SetDefault("discovery_limit", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetEnvPrefix(opts.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return s, nil
}

// ModelConfig bridges the settings to the provider registry.
func (s *Settings) ModelConfig() model.Config {
	return model.Config{
		Provider:    s.Provider,
		Model:       s.Model,
		APIKey:      s.APIKey,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}

// LogLevelValue maps the configured level string onto logging.LogLevel,
// defaulting to info for unknown values.
func (s *Settings) LogLevelValue() logging.LogLevel {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return logging.LogLevelDebug
	case "warn", "warning":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}
