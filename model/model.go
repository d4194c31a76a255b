package model

import (
	"context"

	"github.com/hupe1980/sidekick/core"
)

// Options carries per-call generation parameters. Providers apply them on
// top of their construction-time defaults.
type Options struct {
	// SystemInstruction is prepended as a system message when non-empty.
	SystemInstruction string
	// Temperature overrides the sampling temperature when >= 0.
	Temperature float64
	// MaxTokens overrides the output token bound when > 0.
	MaxTokens int64
}

// DefaultOptions returns the baseline per-call options. Temperature -1 means
// "use the provider default".
func DefaultOptions() Options {
	return Options{Temperature: -1}
}

// WithSystemInstruction sets the system instruction for a single call.
func WithSystemInstruction(instruction string) func(o *Options) {
	return func(o *Options) { o.SystemInstruction = instruction }
}

// WithTemperature sets the sampling temperature for a single call.
func WithTemperature(t float64) func(o *Options) {
	return func(o *Options) { o.Temperature = t }
}

// WithMaxTokens bounds the output length for a single call.
func WithMaxTokens(n int64) func(o *Options) {
	return func(o *Options) { o.MaxTokens = n }
}

// ApplyOptions folds functional options over the defaults.
func ApplyOptions(optFns ...func(o *Options)) Options {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Info contains metadata about a model implementation.
type Info struct {
	Name              string `json:"name"`
	Provider          string `json:"provider"` // "openai", "anthropic", "gemini", "mock", etc.
	SupportsStreaming bool   `json:"supports_streaming"`
}

// Model is the capability interface over a text-generation backend. It is
// the sole suspension point in the orchestration layer; all state mutations
// are bracketed around these calls.
type Model interface {
	// Generate produces text for a single prompt.
	Generate(ctx context.Context, prompt string, optFns ...func(o *Options)) (string, error)

	// Chat produces text for a multi-turn conversation.
	Chat(ctx context.Context, messages []core.Message, optFns ...func(o *Options)) (string, error)

	// GenerateStream produces text as a finite sequence of chunks. The
	// returned channels are closed when the stream ends; restarting requires
	// reissuing the call.
	GenerateStream(ctx context.Context, prompt string, optFns ...func(o *Options)) (<-chan string, <-chan error)

	// Info returns information about the model implementation.
	Info() Info

	// Close releases any resources held by the provider. Idempotent.
	Close() error
}
