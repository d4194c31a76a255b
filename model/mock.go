package model

import (
	"context"
	"sync"

	"github.com/hupe1980/sidekick/core"
)

// MockModel is a lightweight in-memory Model useful for tests & examples.
// It replays canned responses keyed by prompt (or the last chat message) and
// records every call for assertion.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	fallback  string
	err       error
	calls     []string
	closed    bool
}

// NewMockModel constructs a MockModel with streaming support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:              name,
			Provider:          "mock",
			SupportsStreaming: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// SetFallback sets the completion returned for unregistered prompts. When
// unset, unregistered prompts echo "Mock response to: <prompt>".
func (m *MockModel) SetFallback(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = response
}

// SetError forces every subsequent call to fail with err.
func (m *MockModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the prompts seen so far, in order.
func (m *MockModel) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Closed reports whether Close has been called.
func (m *MockModel) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockModel) lookup(prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	if m.fallback != "" {
		return m.fallback, nil
	}
	return "Mock response to: " + prompt, nil
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, prompt string, _ ...func(o *Options)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.lookup(prompt)
}

// Chat implements Model; the last message content selects the canned response.
func (m *MockModel) Chat(ctx context.Context, messages []core.Message, _ ...func(o *Options)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var last string
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	return m.lookup(last)
}

// GenerateStream implements Model; emits the canned completion rune by rune.
func (m *MockModel) GenerateStream(ctx context.Context, prompt string, _ ...func(o *Options)) (<-chan string, <-chan error) {
	out := make(chan string, 16)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		full, err := m.lookup(prompt)
		if err != nil {
			errCh <- err
			return
		}
		for _, r := range full {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- string(r):
			}
		}
	}()
	return out, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// Close implements Model.
func (m *MockModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
