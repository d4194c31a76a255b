package brain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/sidekick/content"
	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/logging"
	"github.com/hupe1980/sidekick/memory"
	"github.com/hupe1980/sidekick/model"
	"github.com/hupe1980/sidekick/profile"
)

// State is the lifecycle phase of a Brain session.
type State int

const (
	// StateUninitialized means no user data has been loaded yet.
	StateUninitialized State = iota
	// StateActive means profile and memory are loaded and operations run.
	StateActive
	// StateClosed means the session has been flushed and released.
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

const (
	// DefaultHistoryContext is how many recent turns are assembled into the
	// model input.
	DefaultHistoryContext = 10
	// analysisWindow is how many recent turns feed an understanding pass.
	analysisWindow = 10
)

// Options configures a Brain instance.
type Options struct {
	// Model is the generation backend. nil is valid: chat surfaces
	// core.ErrNoModel while discovery and analysis degrade gracefully.
	Model model.Model
	// Profiles persists profile documents. Defaults to a file store under DataDir.
	Profiles core.ProfileStore
	// Memories persists memory documents. Defaults to a file store under DataDir.
	Memories core.MemoryStore
	// Engine performs content discovery. Defaults to an engine bound to Model.
	Engine *content.Engine
	// DataDir roots the default file stores. Defaults to "data".
	DataDir string
	// HistoryContext bounds the turns assembled into model input.
	HistoryContext int
	// MaxHistory bounds freshly created memories.
	MaxHistory int
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Brain is the per-user orchestrator. See the package documentation for the
// lifecycle and concurrency contract.
type Brain struct {
	mu             sync.Mutex
	userID         string
	state          State
	model          model.Model
	profiles       core.ProfileStore
	memories       core.MemoryStore
	engine         *content.Engine
	historyContext int
	logger         logging.Logger

	// loaded on first use
	prof *core.Profile
	mem  *core.Memory
}

// New creates a Brain for the user. No I/O happens until the first
// operation; construction cannot fail.
func New(userID string, optFns ...func(o *Options)) *Brain {
	opts := Options{
		DataDir:        "data",
		HistoryContext: DefaultHistoryContext,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Profiles == nil {
		opts.Profiles = profile.NewFileStore(opts.DataDir, func(o *profile.FileStoreOptions) {
			o.Logger = opts.Logger
		})
	}
	if opts.Memories == nil {
		opts.Memories = memory.NewFileStore(opts.DataDir, func(o *memory.FileStoreOptions) {
			o.MaxHistory = opts.MaxHistory
			o.Logger = opts.Logger
		})
	}
	if opts.Engine == nil {
		opts.Engine = content.NewEngine(opts.Model, func(o *content.Options) {
			o.Logger = opts.Logger
		})
	}
	if opts.HistoryContext <= 0 {
		opts.HistoryContext = DefaultHistoryContext
	}

	return &Brain{
		userID:         userID,
		state:          StateUninitialized,
		model:          opts.Model,
		profiles:       opts.Profiles,
		memories:       opts.Memories,
		engine:         opts.Engine,
		historyContext: opts.HistoryContext,
		logger:         opts.Logger,
	}
}

// UserID returns the user this session belongs to.
func (b *Brain) UserID() string { return b.userID }

// Engine exposes the discovery engine, mainly for warm-starting its novelty
// buffer.
func (b *Brain) Engine() *content.Engine { return b.engine }

// ProcessMessage records the user turn, assembles a memory-aware model
// input, calls the generation backend and records the assistant turn. The
// user turn is recorded (and persisted) before the backend call, so a
// backend failure never loses conversational state; the failure itself is
// surfaced as a *core.BackendError. An empty model reply is treated as a
// valid response.
func (b *Brain) ProcessMessage(ctx context.Context, text string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureActiveLocked(); err != nil {
		return "", err
	}

	b.mem.AddInteraction(core.RoleUser, text, nil)
	if err := b.memories.Save(b.userID, b.mem); err != nil {
		b.logger.Warn("failed to persist user turn", "user_id", b.userID, "error", err)
	}

	if b.model == nil {
		return "", core.ErrNoModel
	}

	start := time.Now()
	reply, err := b.model.Chat(ctx, b.mem.MessagesForModel(b.historyContext),
		model.WithSystemInstruction(b.systemInstructionLocked()),
	)
	if err != nil {
		b.logger.Error("model call failed", "user_id", b.userID, "duration", time.Since(start), "error", err)
		return "", &core.BackendError{Provider: b.model.Info().Provider, Op: "chat", Err: err}
	}

	b.mem.AddInteraction(core.RoleAssistant, reply, nil)
	b.prof.RecordInteraction()
	b.persistLocked()
	return reply, nil
}

// ProcessMessageStream is the streaming variant of ProcessMessage. Chunks
// are forwarded as the backend produces them; the full response is recorded
// as the assistant turn once the stream completes. If the stream fails mid
// way, the user turn (and any accumulated partial text) stays recorded.
func (b *Brain) ProcessMessageStream(ctx context.Context, text string) (<-chan string, <-chan error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureActiveLocked(); err != nil {
		return nil, nil, err
	}

	b.mem.AddInteraction(core.RoleUser, text, nil)
	if err := b.memories.Save(b.userID, b.mem); err != nil {
		b.logger.Warn("failed to persist user turn", "user_id", b.userID, "error", err)
	}

	if b.model == nil {
		return nil, nil, core.ErrNoModel
	}

	prompt := b.streamPromptLocked(text)
	chunks, errs := b.model.GenerateStream(ctx, prompt)

	out := make(chan string, 32)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		var full strings.Builder
		for chunk := range chunks {
			full.WriteString(chunk)
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- chunk:
			}
		}
		if err := <-errs; err != nil {
			errCh <- &core.BackendError{Provider: b.model.Info().Provider, Op: "stream", Err: err}
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.state != StateActive {
			return
		}
		b.mem.AddInteraction(core.RoleAssistant, full.String(), nil)
		b.prof.RecordInteraction()
		b.persistLocked()
	}()
	return out, errCh, nil
}

// DiscoverContent delegates to the discovery engine with the current
// profile. It persists nothing beyond the engine's own buffer state and may
// legitimately return an empty list.
func (b *Brain) DiscoverContent(ctx context.Context, limit int) ([]core.ContentItem, error) {
	b.mu.Lock()
	if err := b.ensureActiveLocked(); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	prof := b.prof
	b.mu.Unlock()

	// The engine serializes itself; holding the brain lock across the model
	// call would block chat for the whole pass.
	return b.engine.Discover(ctx, prof, limit)
}

// AnalyzeContent asks the backend for a one-line insight about a single item.
func (b *Brain) AnalyzeContent(ctx context.Context, item core.ContentItem) (string, error) {
	return b.engine.Analyze(ctx, item)
}

// UnderstandUser runs an analysis pass over recent history to infer new
// learned patterns, recording them on the profile. With empty history it
// returns core.ErrInsufficientData without invoking the backend.
func (b *Brain) UnderstandUser(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureActiveLocked(); err != nil {
		return "", err
	}
	if b.mem.Len() == 0 {
		return "", core.ErrInsufficientData
	}
	if b.model == nil {
		return "", core.ErrNoModel
	}

	var transcript strings.Builder
	for _, in := range b.mem.Recent(analysisWindow) {
		fmt.Fprintf(&transcript, "%s: %s\n", in.Role, in.Content)
	}

	prompt := fmt.Sprintf(`Analyze these recent interactions and provide insights:

%s
Current interests: %s

Provide:
1. What the user seems interested in
2. Patterns in their questions
3. Suggested interests to add
4. How to better assist them`, transcript.String(), strings.Join(b.prof.InterestList(), ", "))

	insight, err := b.model.Generate(ctx, prompt,
		model.WithSystemInstruction("You are analyzing user behavior to provide better personalized assistance."),
	)
	if err != nil {
		return "", &core.BackendError{Provider: b.model.Info().Provider, Op: "understand", Err: err}
	}

	b.prof.RecordLearnedPattern("behavior_insights", insight)
	b.prof.RecordLearnedPattern("last_analysis_at", time.Now().Format(time.RFC3339))
	if err := b.profiles.Save(b.prof); err != nil {
		b.logger.Warn("failed to persist learned patterns", "user_id", b.userID, "error", err)
	}
	return insight, nil
}

// AddInterest adds an interest to the profile and persists immediately.
// Adding a duplicate is a no-op.
func (b *Brain) AddInterest(term string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureActiveLocked(); err != nil {
		return err
	}
	if !b.prof.AddInterest(term) {
		return nil
	}
	return b.profiles.Save(b.prof)
}

// RemoveInterest removes an interest from the profile and persists
// immediately. Removing a missing interest is a no-op.
func (b *Brain) RemoveInterest(term string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureActiveLocked(); err != nil {
		return err
	}
	if !b.prof.RemoveInterest(term) {
		return nil
	}
	return b.profiles.Save(b.prof)
}

// Status is a read-only snapshot of a session.
type Status struct {
	UserID           string      `json:"user_id"`
	State            string      `json:"state"`
	Interests        []string    `json:"interests"`
	InteractionCount int         `json:"interaction_count"`
	MemorySize       int         `json:"memory_size"`
	LearnedPatterns  []string    `json:"learned_patterns"`
	Created          time.Time   `json:"created_at,omitzero"`
	Updated          time.Time   `json:"updated_at,omitzero"`
	Model            *model.Info `json:"model,omitempty"`
}

// Status returns a snapshot of the session. It never mutates state: on an
// uninitialized session it reports only identity and lifecycle phase rather
// than forcing a load.
func (b *Brain) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := Status{UserID: b.userID, State: b.state.String()}
	if b.model != nil {
		info := b.model.Info()
		st.Model = &info
	}
	if b.state != StateActive {
		return st
	}
	st.Interests = b.prof.InterestList()
	st.InteractionCount = b.prof.InteractionCount
	st.MemorySize = b.mem.Len()
	st.LearnedPatterns = b.prof.PatternNames()
	st.Created = b.prof.Created
	st.Updated = b.prof.Updated
	return st
}

// Memory exposes the live memory for auxiliary operations (search, context
// vars). It is only non-nil while the session is active.
func (b *Brain) Memory() *core.Memory {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mem
}

// Close flushes profile and memory to storage and releases the model.
// Idempotent: calling twice is safe and returns nil.
func (b *Brain) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateClosed {
		return nil
	}
	if b.state == StateActive {
		b.persistLocked()
	}
	b.state = StateClosed
	if b.model != nil {
		if err := b.model.Close(); err != nil {
			return fmt.Errorf("close model: %w", err)
		}
	}
	b.logger.Info("session closed", "user_id", b.userID)
	return nil
}

// ensureActiveLocked lazily loads profile and memory on first use; caller
// must hold the lock.
func (b *Brain) ensureActiveLocked() error {
	switch b.state {
	case StateActive:
		return nil
	case StateClosed:
		return core.ErrClosed
	}
	prof, err := b.profiles.Load(b.userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	mem, err := b.memories.Load(b.userID)
	if err != nil {
		return fmt.Errorf("load memory: %w", err)
	}
	b.prof = prof
	b.mem = mem
	b.state = StateActive
	b.logger.Info("session activated", "user_id", b.userID, "interests", len(prof.InterestList()), "history", mem.Len())
	return nil
}

// systemInstructionLocked assembles the per-call system instruction from the
// profile; caller must hold the lock.
func (b *Brain) systemInstructionLocked() string {
	interests := strings.Join(b.prof.InterestList(), ", ")
	if interests == "" {
		interests = "not specified yet"
	}
	tone := "friendly"
	if pref, ok := b.prof.Preference(core.PrefTone); ok {
		tone = pref.String()
	}

	var p strings.Builder
	p.WriteString("You are a personal assistant and co-pilot for this user.\n")
	p.WriteString("Help them solve problems, surface relevant content and adapt to their needs.\n")
	fmt.Fprintf(&p, "User interests: %s.\n", interests)
	fmt.Fprintf(&p, "Preferred tone: %s.\n", tone)
	if insights, ok := b.prof.LearnedPattern("behavior_insights"); ok && insights != "" {
		fmt.Fprintf(&p, "What you have learned about the user so far:\n%s\n", insights)
	}
	p.WriteString("Be conversational, helpful and personalized in your responses.")
	return p.String()
}

// streamPromptLocked folds the system instruction and recent turns into a
// single prompt for the streaming path; caller must hold the lock.
func (b *Brain) streamPromptLocked(text string) string {
	var p strings.Builder
	p.WriteString(b.systemInstructionLocked())
	p.WriteString("\n\nRecent conversation:\n")
	for _, msg := range b.mem.MessagesForModel(b.historyContext) {
		fmt.Fprintf(&p, "%s: %s\n", msg.Role, msg.Content)
	}
	fmt.Fprintf(&p, "\nRespond to the user's latest message: %s", text)
	return p.String()
}

// persistLocked flushes profile and memory; persistence failures are logged
// rather than returned so an already generated reply is never discarded.
// Caller must hold the lock.
func (b *Brain) persistLocked() {
	if err := b.profiles.Save(b.prof); err != nil {
		b.logger.Error("failed to persist profile", "user_id", b.userID, "error", err)
	}
	if err := b.memories.Save(b.userID, b.mem); err != nil {
		b.logger.Error("failed to persist memory", "user_id", b.userID, "error", err)
	}
}
