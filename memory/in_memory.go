package memory

import (
	"sync"

	"github.com/hupe1980/sidekick/core"
)

// Compile-time interface check.
var _ core.MemoryStore = (*InMemoryStore)(nil)

// InMemoryStore is a trivial in-process MemoryStore implementation useful
// for tests, examples and single-process prototypes. Memories are cloned on
// load and save to avoid accidental external mutation of internal state.
//
// Data does not survive process restarts; use FileStore for durability.
type InMemoryStore struct {
	mu       sync.RWMutex
	memories map[string]*core.Memory
	maxHist  int
}

// InMemoryStoreOptions configures NewInMemoryStore.
type InMemoryStoreOptions struct {
	// MaxHistory bounds freshly created memories. Zero means the default.
	MaxHistory int
}

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore(optFns ...func(o *InMemoryStoreOptions)) *InMemoryStore {
	opts := InMemoryStoreOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		memories: make(map[string]*core.Memory),
		maxHist:  opts.MaxHistory,
	}
}

// Load returns a copy of the stored memory, or a fresh one for unseen users.
func (s *InMemoryStore) Load(userID string) (*core.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if mem, ok := s.memories[userID]; ok {
		return mem.Clone(), nil
	}
	return core.NewMemory(s.maxHist), nil
}

// Save stores a copy of the memory for the user.
func (s *InMemoryStore) Save(userID string, mem *core.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memories[userID] = mem.Clone()
	return nil
}
