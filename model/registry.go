package model

import (
	"fmt"
	"sort"
	"sync"
)

// Config describes how to construct a provider-backed model. It is the
// bridge between external configuration and the provider registry.
type Config struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int64   `json:"max_tokens"`
}

// Factory constructs a Model from a Config.
type Factory func(cfg Config) (Model, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a provider available to New under the given tag. Provider
// packages call Register from init(); applications select a provider by
// blank-importing its package. Registering a duplicate tag panics, as with
// database/sql drivers.
func Register(provider string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("model: Register factory is nil")
	}
	if _, dup := registry[provider]; dup {
		panic("model: Register called twice for provider " + provider)
	}
	registry[provider] = factory
}

// New constructs a Model for the configured provider tag.
func New(cfg Config) (Model, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Provider]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("model: unknown provider %q (registered: %v)", cfg.Provider, Providers())
	}
	return factory(cfg)
}

// Providers returns the sorted tags of all registered providers.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
