package profile

import (
	"sync"

	"github.com/hupe1980/sidekick/core"
)

// Compile-time interface check.
var _ core.ProfileStore = (*InMemoryStore)(nil)

// InMemoryStore is an in-process ProfileStore for tests, examples and
// single-process prototypes. Profiles are cloned on load and save so callers
// never share internal state. Data does not survive process restarts.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*core.Profile
}

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[string]*core.Profile)}
}

// Load returns a copy of the stored profile, or a fresh default profile for
// unseen users.
func (s *InMemoryStore) Load(userID string) (*core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if prof, ok := s.profiles[userID]; ok {
		return prof.Clone(), nil
	}
	return core.NewProfile(userID), nil
}

// Save stores a copy of the profile.
func (s *InMemoryStore) Save(prof *core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[prof.UserID] = prof.Clone()
	return nil
}
