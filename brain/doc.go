// Package brain implements the per-user orchestrator. A Brain composes a
// generation model, a profile store, a memory store and the content
// discovery engine into a single session: it turns a chat turn into a
// memory-aware prompt, dispatches discovery, applies profile-learning passes
// and exposes a unified status/lifecycle surface.
//
// Lifecycle: Uninitialized -> Active -> Closed. The first operation lazily
// loads (or default-creates) the user's profile and memory. Close flushes
// both and releases the model; it is idempotent.
//
// Concurrency: a single logical session per user id is expected to be driven
// by one caller at a time. The Brain serializes its own operations with a
// mutex, but cross-process access to the same user's files is last-write-wins.
package brain
