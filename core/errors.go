package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoModel indicates no generation backend is bound. Dependent
	// operations that have a documented neutral result (discovery, analysis)
	// degrade instead of returning this; operations that cannot produce a
	// meaningful result without a backend (chat) surface it so front-ends can
	// distinguish missing configuration from transient failure.
	ErrNoModel = errors.New("no generation model configured")

	// ErrInsufficientData indicates an analysis pass was requested with no
	// interaction history to analyze.
	ErrInsufficientData = errors.New("insufficient interaction history")

	// ErrClosed indicates an operation on an already closed session.
	ErrClosed = errors.New("session is closed")
)

// BackendError wraps a generation backend failure (network, auth, quota).
// Already-recorded conversational state is never lost when one is returned.
type BackendError struct {
	Provider string
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error during %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *BackendError) Unwrap() error { return e.Err }
