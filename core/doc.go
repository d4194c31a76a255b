// Package core provides the foundational domain types, interfaces and
// contracts used by Sidekick. It defines the core abstractions for:
//
//   - Profiles (durable per-user preferences, interests and learned patterns)
//   - Memory (bounded conversational history plus a keyed scratchpad)
//   - Interactions (immutable conversational turn records)
//   - ContentItems (discovered content with relevance scores)
//   - Pluggable stores for profile and memory persistence
//
// The package intentionally keeps implementation concerns (file persistence,
// model providers, orchestration) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
