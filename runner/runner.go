package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/sidekick/brain"
	"github.com/hupe1980/sidekick/content"
	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/logging"
)

// Options holds configuration overrides passed to New().
type Options struct {
	// Interval between discovery passes.
	Interval time.Duration
	// Limit caps the items requested per pass.
	Limit int
	// BufferSize sets channel buffering for delivered items.
	BufferSize int
	// UnderstandEvery runs a behavior analysis pass every N discovery
	// passes. Zero disables analysis.
	UnderstandEvery int
	// Logging services.
	Logger logging.Logger
}

// Runner drives a session proactively in the background: on a fixed
// interval it runs a discovery pass against the user's current interests and
// delivers fresh items over a channel, optionally interleaving behavior
// analysis passes. Public methods are safe for concurrent use.
type Runner struct {
	brain *brain.Brain

	interval        time.Duration
	limit           int
	bufferSize      int
	understandEvery int
	logger          logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New constructs a Runner for the session with optional overrides.
func New(b *brain.Brain, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Interval:   30 * time.Minute,
		Limit:      content.DefaultLimit,
		BufferSize: 16,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		brain:           b,
		interval:        opts.Interval,
		limit:           opts.Limit,
		bufferSize:      opts.BufferSize,
		understandEvery: opts.UnderstandEvery,
		logger:          opts.Logger,
	}
}

// Start begins the background loop. The first pass runs immediately, then
// one per interval. Items are delivered on the returned channel; pass
// failures are delivered on the error channel without stopping the loop.
// Both channels close when ctx is cancelled or Stop is called. A Runner
// supports one loop at a time.
func (r *Runner) Start(ctx context.Context) (<-chan core.ContentItem, <-chan error, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return nil, nil, fmt.Errorf("runner: already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	items := make(chan core.ContentItem, r.bufferSize)
	errs := make(chan error, 1)

	go func() {
		// clear before closing so a caller draining the channels can
		// immediately start a new loop
		defer func() {
			r.mu.Lock()
			r.cancel = nil
			r.mu.Unlock()
			close(items)
			close(errs)
		}()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		pass := 0
		for {
			pass++
			r.runPass(ctx, pass, items, errs)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return items, errs, nil
}

// Stop cancels a running loop. It is a no-op when the loop is not running.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *Runner) runPass(ctx context.Context, pass int, items chan<- core.ContentItem, errs chan<- error) {
	start := time.Now()
	found, err := r.brain.DiscoverContent(ctx, r.limit)
	if err != nil {
		select {
		case <-ctx.Done():
		case errs <- fmt.Errorf("discovery pass %d: %w", pass, err):
		}
	}
	for _, item := range found {
		select {
		case <-ctx.Done():
			return
		case items <- item:
		}
	}
	r.logger.Debug("discovery pass complete", "pass", pass, "items", len(found), "duration", time.Since(start))

	if r.understandEvery > 0 && pass%r.understandEvery == 0 {
		if _, err := r.brain.UnderstandUser(ctx); err != nil && ctx.Err() == nil {
			// thin history is expected early on, not a loop failure
			if !errors.Is(err, core.ErrInsufficientData) {
				select {
				case <-ctx.Done():
				case errs <- fmt.Errorf("analysis pass %d: %w", pass, err):
				}
			}
		}
	}
}
