package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/logging"
	"github.com/hupe1980/sidekick/model"
)

const (
	// DefaultLimit caps a discovery pass when the caller supplies none.
	DefaultLimit = 10
	// DefaultSeenLimit bounds the rolling buffer of previously surfaced items.
	DefaultSeenLimit = 100

	// neutralInsight is returned by Analyze when no model is bound.
	neutralInsight = "No analysis available without a configured model."
)

// Options configures an Engine.
type Options struct {
	// SeenLimit bounds the rolling novelty buffer. Non-positive selects
	// DefaultSeenLimit.
	SeenLimit int
	// Logger receives per-pass diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine produces ranked, novel, bounded lists of content items relevant to
// a user's interests. It is stateless per call apart from the rolling buffer
// of previously surfaced item identities. Safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	model     model.Model
	seen      []core.ContentItem
	seenKeys  map[string]struct{}
	seenLimit int
	logger    logging.Logger
}

// NewEngine constructs an Engine. A nil model is valid: discovery then
// degrades to empty results and analysis to a neutral fallback.
func NewEngine(m model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{SeenLimit: DefaultSeenLimit, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SeenLimit <= 0 {
		opts.SeenLimit = DefaultSeenLimit
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Engine{
		model:     m,
		seenKeys:  map[string]struct{}{},
		seenLimit: opts.SeenLimit,
		logger:    opts.Logger,
	}
}

// Discover proposes up to limit ranked content items for the profile. With
// no model bound it returns an empty slice and nil error; downstream callers
// must treat "no content" as a valid outcome. Items whose identity is
// already in the rolling buffer are dropped before ranking so the same
// content is never surfaced across consecutive passes.
func (e *Engine) Discover(ctx context.Context, p *core.Profile, limit int) ([]core.ContentItem, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if e.model == nil {
		e.logger.Debug("discovery skipped, no model configured")
		return []core.ContentItem{}, nil
	}

	start := time.Now()
	reply, err := e.model.Generate(ctx, buildDiscoveryPrompt(p, limit),
		model.WithSystemInstruction("You are a content curator helping find interesting material."),
	)
	if err != nil {
		return nil, &core.BackendError{Provider: e.model.Info().Provider, Op: "discover", Err: err}
	}

	candidates := e.parseCandidates(reply)

	e.mu.Lock()
	defer e.mu.Unlock()

	novel := make([]core.ContentItem, 0, len(candidates))
	batch := map[string]struct{}{}
	for _, item := range candidates {
		id := item.Identity()
		if _, dup := e.seenKeys[id]; dup {
			continue
		}
		// a reply can propose the same identity twice in one pass
		if _, dup := batch[id]; dup {
			continue
		}
		batch[id] = struct{}{}
		novel = append(novel, item)
	}

	ranked := rank(novel, p)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	for _, item := range ranked {
		e.rememberLocked(item)
	}

	e.logger.Info("discovery pass completed",
		"candidates", len(candidates),
		"returned", len(ranked),
		"dropped", len(candidates)-len(ranked),
		"duration", time.Since(start),
	)
	return ranked, nil
}

// Analyze asks the model for a one-line insight about a single item. With no
// model bound it returns a deterministic neutral fallback instead of failing.
func (e *Engine) Analyze(ctx context.Context, item core.ContentItem) (string, error) {
	if e.model == nil {
		return neutralInsight, nil
	}
	prompt := fmt.Sprintf(
		"In one line, explain why this content could matter to the reader:\nTitle: %s\nType: %s\nSummary: %s",
		item.Title, item.Type, item.Summary,
	)
	insight, err := e.model.Generate(ctx, prompt)
	if err != nil {
		return "", &core.BackendError{Provider: e.model.Info().Provider, Op: "analyze", Err: err}
	}
	return strings.TrimSpace(insight), nil
}

// RecentDiscoveries returns up to limit items from the rolling buffer,
// newest first.
func (e *Engine) RecentDiscoveries(limit int) []core.ContentItem {
	if limit <= 0 {
		limit = DefaultLimit
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := len(e.seen)
	if limit > n {
		limit = n
	}
	out := make([]core.ContentItem, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, e.seen[i])
	}
	return out
}

// BufferLen returns the number of identities currently held by the novelty buffer.
func (e *Engine) BufferLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.seen)
}

// Seed inserts items into the novelty buffer without surfacing them, useful
// for warm starts after a restart.
func (e *Engine) Seed(items ...core.ContentItem) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range items {
		if _, dup := e.seenKeys[item.Identity()]; dup {
			continue
		}
		e.rememberLocked(item)
	}
}

// rememberLocked appends an item to the buffer and trims FIFO; caller must
// hold the write lock. Identities already keyed are skipped so buffer and
// key set never disagree on eviction.
func (e *Engine) rememberLocked(item core.ContentItem) {
	id := item.Identity()
	if _, dup := e.seenKeys[id]; dup {
		return
	}
	e.seen = append(e.seen, item)
	e.seenKeys[id] = struct{}{}
	for len(e.seen) > e.seenLimit {
		evicted := e.seen[0]
		e.seen = e.seen[1:]
		delete(e.seenKeys, evicted.Identity())
	}
}

// buildDiscoveryPrompt embeds the interest set and preference hints into the
// candidate-generation request. The reply format is pipe-separated so the
// parser stays trivial and failure-tolerant.
func buildDiscoveryPrompt(p *core.Profile, limit int) string {
	interests := strings.Join(p.InterestList(), ", ")
	if interests == "" {
		interests = "general technology and science"
	}
	var density string
	if pref, ok := p.Preference(core.PrefContentDensity); ok {
		density = pref.String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d pieces of content for a reader interested in: %s.\n", limit, interests)
	if density != "" {
		fmt.Fprintf(&b, "Preferred content density: %s.\n", density)
	}
	// candidates carry no publish date, so recency weighting acts at
	// candidate generation rather than in the local ranking
	if pref, ok := p.Preference(core.PrefRecencyWeight); ok {
		if w, isNum := pref.AsNumber(); isNum && w > 0 {
			fmt.Fprintf(&b, "Recency weight: %.1f on a 0 to 1 scale; favor recently published material accordingly.\n", w)
		}
	}
	b.WriteString("Reply with one item per line, numbered, in the exact format:\n")
	b.WriteString("1. Title | type | url | one-line summary\n")
	b.WriteString("where type is one of: article, video, discussion, paper, other.")
	return b.String()
}

// parseCandidates parses the model reply best-effort: each parsable line
// becomes an item, malformed lines (and surrounding prose) are skipped and
// logged. The whole pass is never failed because one candidate was malformed.
func (e *Engine) parseCandidates(reply string) []core.ContentItem {
	var items []core.ContentItem
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stripped, numbered := stripListPrefix(line)
		if !numbered && !strings.Contains(stripped, "|") {
			e.logger.Debug("skipping non-candidate line", "line", line)
			continue
		}
		fields := strings.Split(stripped, "|")
		title := strings.TrimSpace(fields[0])
		if title == "" {
			e.logger.Debug("skipping malformed candidate line", "line", line)
			continue
		}
		var typeTag, url, summary string
		if len(fields) > 1 {
			typeTag = fields[1]
		}
		if len(fields) > 2 {
			url = strings.TrimSpace(fields[2])
		}
		if len(fields) > 3 {
			summary = strings.TrimSpace(strings.Join(fields[3:], "|"))
		}
		items = append(items, core.NewContentItem(title, url, core.ParseContentType(typeTag), summary))
	}
	return items
}

// stripListPrefix removes a leading "N." or "N)" list marker or bullet,
// reporting whether a numbered marker was present.
func stripListPrefix(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, "-*• \t")
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i > 0 && i < len(trimmed) && (trimmed[i] == '.' || trimmed[i] == ')') {
		return strings.TrimSpace(trimmed[i+1:]), true
	}
	return strings.TrimSpace(trimmed), false
}

// rank scores candidates by interest-term overlap over title+summary,
// weighted by preference settings, and orders them by descending score with
// a stable sort so ties keep discovery order (first seen wins).
func rank(items []core.ContentItem, p *core.Profile) []core.ContentItem {
	interests := p.InterestList()
	preferredTypes := map[core.ContentType]bool{}
	if pref, ok := p.Preference(core.PrefContentTypes); ok {
		for _, t := range strings.Split(pref.String(), ",") {
			preferredTypes[core.ParseContentType(t)] = true
		}
	}

	ranked := make([]core.ContentItem, len(items))
	copy(ranked, items)
	for i := range ranked {
		ranked[i].Score = score(ranked[i], interests, preferredTypes)
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })
	return ranked
}

// score derives a relevance value in [0,1] for one item.
func score(item core.ContentItem, interests []string, preferredTypes map[core.ContentType]bool) float64 {
	s := 0.5
	if len(interests) > 0 {
		text := strings.ToLower(item.Title + " " + item.Summary)
		matched := 0
		for _, interest := range interests {
			if strings.Contains(text, interest) {
				matched++
			}
		}
		s = 0.2 + 0.7*float64(matched)/float64(len(interests))
	}
	if preferredTypes[item.Type] {
		s += 0.1
	}
	if s > 1 {
		s = 1
	}
	if s < 0 {
		s = 0
	}
	return s
}
