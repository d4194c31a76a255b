// Package runner implements proactive background operation of a session.
//
// A Runner wraps a brain session and periodically runs content discovery on
// the user's behalf, delivering fresh items over a channel as they surface.
// It can optionally interleave behavior analysis passes so the profile keeps
// learning while the loop runs. Pass failures are reported on an error
// channel without stopping the loop; cancellation is cooperative via the
// provided context or Stop.
package runner
