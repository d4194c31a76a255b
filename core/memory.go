package core

import (
	"strings"
	"sync"
	"time"
)

// DefaultMaxHistory bounds conversational history when no explicit limit is
// configured.
const DefaultMaxHistory = 50

// Memory is one user's bounded conversational history plus a small keyed
// working-memory scratchpad. It is safe for concurrent access.
//
// Contract:
//   - len(history) <= max bound after every append; eviction is FIFO
//   - an odd-length tail (user turn without a paired assistant turn) is valid
//   - Recent/Search return defensive copies in chronological order
type Memory struct {
	History    []Interaction  `json:"history"`
	Context    map[string]any `json:"context"`
	MaxHistory int            `json:"max_history"`
	mu         sync.RWMutex
}

// NewMemory creates an empty memory bounded to maxHistory interactions.
// A non-positive bound selects DefaultMaxHistory.
func NewMemory(maxHistory int) *Memory {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Memory{
		History:    []Interaction{},
		Context:    map[string]any{},
		MaxHistory: maxHistory,
	}
}

// AddInteraction appends a turn, evicting from the front when the bound is
// exceeded. The recorded interaction is returned.
func (m *Memory) AddInteraction(role, content string, metadata map[string]any) Interaction {
	in := NewInteraction(role, content, metadata)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.History = append(m.History, in)
	if bound := m.bound(); len(m.History) > bound {
		m.History = append([]Interaction(nil), m.History[len(m.History)-bound:]...)
	}
	return in
}

// Recent returns the last min(n, len) interactions in chronological order.
func (m *Memory) Recent(n int) []Interaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n > len(m.History) {
		n = len(m.History)
	}
	if n <= 0 {
		return []Interaction{}
	}
	out := make([]Interaction, n)
	copy(out, m.History[len(m.History)-n:])
	return out
}

// MessagesForModel projects the last n interactions into the role/content
// pairs a generation backend expects.
func (m *Memory) MessagesForModel(n int) []Message {
	recent := m.Recent(n)
	msgs := make([]Message, 0, len(recent))
	for _, in := range recent {
		msgs = append(msgs, Message{Role: in.Role, Content: in.Content})
	}
	return msgs
}

// UpdateContext writes a scratchpad value; last write wins.
func (m *Memory) UpdateContext(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Context[key] = value
}

// GetContext reads a scratchpad value and whether it exists.
func (m *Memory) GetContext(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.Context[key]
	return v, ok
}

// Search performs a case-insensitive substring match over interaction
// content, returning matches in chronological order. An empty query matches
// nothing.
func (m *Memory) Search(query string) []Interaction {
	if query == "" {
		return []Interaction{}
	}
	needle := strings.ToLower(query)
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := []Interaction{}
	for _, in := range m.History {
		if strings.Contains(strings.ToLower(in.Content), needle) {
			matches = append(matches, in)
		}
	}
	return matches
}

// Clear empties history and scratchpad. Irreversible.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.History = []Interaction{}
	m.Context = map[string]any{}
}

// Len returns the number of retained interactions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.History)
}

// Summary is a read-only snapshot of memory statistics.
type Summary struct {
	TotalInteractions int        `json:"total_interactions"`
	ContextKeys       []string   `json:"context_keys"`
	Oldest            *time.Time `json:"oldest,omitempty"`
	Newest            *time.Time `json:"newest,omitempty"`
}

// Summarize returns counts plus the oldest and newest interaction timestamps.
func (m *Memory) Summarize() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Summary{
		TotalInteractions: len(m.History),
		ContextKeys:       make([]string, 0, len(m.Context)),
	}
	for k := range m.Context {
		s.ContextKeys = append(s.ContextKeys, k)
	}
	if len(m.History) > 0 {
		oldest := m.History[0].Timestamp
		newest := m.History[len(m.History)-1].Timestamp
		s.Oldest = &oldest
		s.Newest = &newest
	}
	return s
}

// Clone returns a deep copy of the memory safe for independent mutation.
func (m *Memory) Clone() *Memory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clone := &Memory{
		History:    make([]Interaction, len(m.History)),
		Context:    make(map[string]any, len(m.Context)),
		MaxHistory: m.MaxHistory,
	}
	copy(clone.History, m.History)
	for k, v := range m.Context {
		clone.Context[k] = v
	}
	return clone
}

func (m *Memory) bound() int {
	if m.MaxHistory <= 0 {
		return DefaultMaxHistory
	}
	return m.MaxHistory
}
