package core

import (
	"time"

	"github.com/google/uuid"
)

// Conversation roles used throughout Sidekick. Providers map these onto
// their own wire formats.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Interaction is a single recorded conversational turn. Interactions are
// immutable once recorded; mutating an already stored interaction is a
// programming error.
type Interaction struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewInteraction creates an interaction stamped with a fresh id and the
// current time. A nil metadata map stays nil to keep serialized documents
// compact.
func NewInteraction(role, content string, metadata map[string]any) Interaction {
	return Interaction{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// Message is the minimal role/content pair expected by generation backends.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewID generates a unique identifier for interactions and content items.
func NewID() string { return uuid.NewString() }
