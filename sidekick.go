// Package sidekick provides a high-level façade over the per-user brain and
// service abstractions (profiles, memory, content discovery & logging)
// enabling rapid construction of personal assistant sessions. Most
// applications interact with this package by:
//  1. Creating a session via New() (optionally overriding default file-backed stores)
//  2. Driving it through ProcessMessage / DiscoverContent / UnderstandUser
//  3. Closing it to flush state
//
// The façade delegates orchestration to brain.Brain while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a configured model
// provider and a structured logger.
package sidekick

import (
	"github.com/hupe1980/sidekick/brain"
	"github.com/hupe1980/sidekick/content"
	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/logging"
	"github.com/hupe1980/sidekick/model"
)

// Options configures a session created by New.
type Options struct {
	// Model is the generation backend. When nil and ModelConfig is set, the
	// provider registry constructs one; when both are nil the session runs
	// degraded (chat unavailable, discovery empty).
	Model model.Model

	// ModelConfig selects a registered provider by tag. The provider package
	// must be imported (usually blank) for its tag to be registered.
	ModelConfig *model.Config

	// DataDir roots the default file-backed stores. Defaults to "data".
	DataDir string

	// MaxHistory bounds conversational memory for new users.
	MaxHistory int

	// HistoryContext bounds the turns assembled into model input.
	HistoryContext int

	// Stores (default to file-backed implementations under DataDir if not provided)
	Profiles core.ProfileStore
	Memories core.MemoryStore

	// Engine performs content discovery (defaults to one bound to Model).
	Engine *content.Engine

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// New creates a per-user session with optional overrides. Any unset service
// is initialized with a file-backed implementation under DataDir.
func New(userID string, optFns ...func(o *Options)) (*brain.Brain, error) {
	opts := Options{
		DataDir: "data",
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := opts.Model
	if m == nil && opts.ModelConfig != nil {
		constructed, err := model.New(*opts.ModelConfig)
		if err != nil {
			return nil, err
		}
		m = constructed
	}

	return brain.New(userID, func(o *brain.Options) {
		o.Model = m
		o.Profiles = opts.Profiles
		o.Memories = opts.Memories
		o.Engine = opts.Engine
		o.DataDir = opts.DataDir
		o.MaxHistory = opts.MaxHistory
		o.HistoryContext = opts.HistoryContext
		o.Logger = opts.Logger
	}), nil
}
