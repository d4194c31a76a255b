// Package content implements the discovery engine: it asks a generation
// model for candidate content matching a user's interests, parses the reply
// best-effort, ranks candidates against the profile and filters out items
// already surfaced in previous passes (novelty filter).
package content
