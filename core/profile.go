package core

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Default preference names understood by the discovery and orchestration
// layers. Unknown names are accepted and stored as-is.
const (
	PrefTone                = "tone"
	PrefContentDensity      = "content_density"
	PrefNotificationMinutes = "notification_cadence_minutes"
	PrefLanguages           = "languages"
	PrefContentTypes        = "content_types"
	PrefRecencyWeight       = "recency_weight"
)

// Profile holds a user's durable preferences, interests, interaction counter
// and learned behavioral patterns. It is safe for concurrent access.
//
// Contract:
//   - Every mutating operation bumps Updated; Updated >= Created always holds
//   - Interests are a case-normalized set (trim + lowercase, no duplicates)
//   - Clone performs deep copies for safe divergence
type Profile struct {
	UserID           string                `json:"user_id"`
	Interests        []string              `json:"interests"`
	Preferences      map[string]Preference `json:"preferences"`
	InteractionCount int                   `json:"interaction_count"`
	LearnedPatterns  map[string]string     `json:"learned_patterns"`
	Created          time.Time             `json:"created_at"`
	Updated          time.Time             `json:"updated_at"`
	mu               sync.RWMutex
}

// NewProfile creates a profile for an unseen user with documented default
// preferences and empty interests/patterns.
func NewProfile(userID string) *Profile {
	now := time.Now()
	return &Profile{
		UserID:    userID,
		Interests: []string{},
		Preferences: map[string]Preference{
			PrefTone:                StringPreference("friendly"),
			PrefContentDensity:      StringPreference("medium"),
			PrefNotificationMinutes: NumberPreference(30),
			PrefLanguages:           StringPreference("en"),
			PrefContentTypes:        StringPreference("article,video,paper"),
		},
		LearnedPatterns: map[string]string{},
		Created:         now,
		Updated:         now,
	}
}

// NormalizeInterest applies the canonical interest normalization (trim +
// lowercase) used for set membership.
func NormalizeInterest(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// AddInterest adds a normalized interest term. Adding an already present
// or empty term is a no-op. Reports whether the set changed.
func (p *Profile) AddInterest(term string) bool {
	norm := NormalizeInterest(term)
	if norm == "" {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.Interests {
		if existing == norm {
			return false
		}
	}
	p.Interests = append(p.Interests, norm)
	p.touch()
	return true
}

// RemoveInterest removes a normalized interest term. Removing a missing term
// is a no-op. Reports whether the set changed.
func (p *Profile) RemoveInterest(term string) bool {
	norm := NormalizeInterest(term)
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.Interests {
		if existing == norm {
			p.Interests = append(p.Interests[:i], p.Interests[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// HasInterest reports whether the normalized term is present.
func (p *Profile) HasInterest(term string) bool {
	norm := NormalizeInterest(term)
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, existing := range p.Interests {
		if existing == norm {
			return true
		}
	}
	return false
}

// InterestList returns a defensive copy of the interest set in insertion order.
func (p *Profile) InterestList() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.Interests))
	copy(out, p.Interests)
	return out
}

// RecordInteraction increments the monotonic interaction counter.
func (p *Profile) RecordInteraction() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.InteractionCount++
	p.touch()
}

// UpdatePreference overwrites a preference value. Unknown names are accepted
// and stored rather than rejected.
func (p *Profile) UpdatePreference(name string, value Preference) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Preferences[name] = value
	p.touch()
}

// Preference returns the named preference and whether it is set.
func (p *Profile) Preference(name string) (Preference, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.Preferences[name]
	return v, ok
}

// RecordLearnedPattern stores a named inference about user behavior,
// overwriting any previous value for the name. Patterns never expire.
func (p *Profile) RecordLearnedPattern(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.LearnedPatterns[name] = value
	p.touch()
}

// LearnedPattern returns the named pattern value and whether it is set.
func (p *Profile) LearnedPattern(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.LearnedPatterns[name]
	return v, ok
}

// PatternNames returns the sorted names of all learned patterns.
func (p *Profile) PatternNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.LearnedPatterns))
	for name := range p.LearnedPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the profile safe for independent mutation.
func (p *Profile) Clone() *Profile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	clone := &Profile{
		UserID:           p.UserID,
		Interests:        make([]string, len(p.Interests)),
		Preferences:      make(map[string]Preference, len(p.Preferences)),
		InteractionCount: p.InteractionCount,
		LearnedPatterns:  make(map[string]string, len(p.LearnedPatterns)),
		Created:          p.Created,
		Updated:          p.Updated,
	}
	copy(clone.Interests, p.Interests)
	for k, v := range p.Preferences {
		clone.Preferences[k] = v
	}
	for k, v := range p.LearnedPatterns {
		clone.LearnedPatterns[k] = v
	}
	return clone
}

// touch bumps Updated; caller must hold the write lock. Updated never moves
// behind Created even if the wall clock does.
func (p *Profile) touch() {
	now := time.Now()
	if now.Before(p.Created) {
		now = p.Created
	}
	p.Updated = now
}
