// Package memory contains concrete MemoryStore implementations. The store
// interface and Memory type reside in the core package. Import
// github.com/hupe1980/sidekick/core and depend on core.MemoryStore in your
// code; select an implementation (like the file store below) at wiring time.
//
// Rationale: keeps domain contracts centralized while allowing pluggable
// backends (databases, remote stores, etc.) to be added without introducing
// dependency cycles.
package memory
