package content

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_NoModelDegradesToEmpty(t *testing.T) {
	engine := NewEngine(nil)
	items, err := engine.Discover(context.Background(), core.NewProfile("u"), 5)
	require.NoError(t, err, "missing configuration is not an error")
	assert.Empty(t, items)
}

func TestEngine_NoModelAnalyzeFallback(t *testing.T) {
	engine := NewEngine(nil)
	insight, err := engine.Analyze(context.Background(), core.NewContentItem("Foo", "http://x", core.ContentArticle, ""))
	require.NoError(t, err)
	assert.Equal(t, neutralInsight, insight)
}

func TestEngine_ParsesAndSkipsMalformed(t *testing.T) {
	m := model.NewMockModel("curator")
	m.SetFallback(`Here are some suggestions for you:
1. Go Generics Deep Dive | article | http://a | Thorough walkthrough
2. | article | http://missing-title | no title here
3. Orbital Mechanics 101 | video | http://b | Intro lecture
Hope these help!`)

	engine := NewEngine(m)
	items, err := engine.Discover(context.Background(), core.NewProfile("u"), 10)
	require.NoError(t, err)
	require.Len(t, items, 2, "prose and the titleless entry must be skipped")
	assert.Equal(t, "Go Generics Deep Dive", items[0].Title)
	assert.Equal(t, core.ContentArticle, items[0].Type)
	assert.Equal(t, "http://a", items[0].URL)
	assert.Equal(t, core.ContentVideo, items[1].Type)
}

func TestEngine_NoveltyFilter(t *testing.T) {
	m := model.NewMockModel("curator")
	m.SetFallback("1. Foo | article | http://x | Seen before\n2. Bar | article | http://y | Brand new")

	engine := NewEngine(m)
	engine.Seed(core.NewContentItem("Foo", "http://x", core.ContentArticle, ""))

	items, err := engine.Discover(context.Background(), core.NewProfile("u"), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bar", items[0].Title)

	// a second pass proposing the same items again surfaces nothing
	again, err := engine.Discover(context.Background(), core.NewProfile("u"), 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestEngine_DuplicateCandidatesWithinPass(t *testing.T) {
	m := model.NewMockModel("curator")
	m.SetFallback(`1. Foo | article | http://x | first copy
2. Foo | article | http://x | second copy
3. Bar | video | http://y | something else`)

	engine := NewEngine(m, func(o *Options) { o.SeenLimit = 2 })

	items, err := engine.Discover(context.Background(), core.NewProfile("u"), 10)
	require.NoError(t, err)
	require.Len(t, items, 2, "a repeated identity surfaces once per pass")
	assert.Equal(t, "Foo", items[0].Title)
	assert.Equal(t, "Bar", items[1].Title)
	assert.Equal(t, 2, engine.BufferLen())

	// both identities are still buffered, so re-proposing them yields nothing
	again, err := engine.Discover(context.Background(), core.NewProfile("u"), 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestEngine_SeedIgnoresDuplicateIdentity(t *testing.T) {
	engine := NewEngine(nil)
	engine.Seed(
		core.NewContentItem("Foo", "http://x", core.ContentArticle, ""),
		core.NewContentItem("foo", "http://x", core.ContentArticle, ""),
	)
	assert.Equal(t, 1, engine.BufferLen())
}

func TestBuildDiscoveryPromptRecencyWeight(t *testing.T) {
	p := core.NewProfile("u")
	assert.NotContains(t, buildDiscoveryPrompt(p, 5), "Recency weight")

	p.UpdatePreference(core.PrefRecencyWeight, core.NumberPreference(0.8))
	prompt := buildDiscoveryPrompt(p, 5)
	assert.Contains(t, prompt, "Recency weight: 0.8")
}

func TestEngine_RankingPrefersInterestOverlap(t *testing.T) {
	m := model.NewMockModel("curator")
	m.SetFallback(`1. Cooking Basics | article | http://a | Knife skills
2. Rust and Go Compared | article | http://b | go concurrency versus rust ownership
3. Go Scheduler Internals | article | http://c | how go schedules goroutines`)

	p := core.NewProfile("u")
	p.AddInterest("go")

	engine := NewEngine(m)
	items, err := engine.Discover(context.Background(), p, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	// both go items outrank the cooking item; ties keep discovery order
	assert.Equal(t, "Rust and Go Compared", items[0].Title)
	assert.Equal(t, "Go Scheduler Internals", items[1].Title)
	assert.Equal(t, "Cooking Basics", items[2].Title)
	assert.Greater(t, items[0].Score, items[2].Score)
	for _, item := range items {
		assert.GreaterOrEqual(t, item.Score, 0.0)
		assert.LessOrEqual(t, item.Score, 1.0)
	}
}

func TestEngine_LimitAndBufferTrim(t *testing.T) {
	m := model.NewMockModel("curator")
	m.SetFallback(`1. A | article | http://a | x
2. B | article | http://b | x
3. C | article | http://c | x`)

	engine := NewEngine(m, func(o *Options) { o.SeenLimit = 2 })
	items, err := engine.Discover(context.Background(), core.NewProfile("u"), 2)
	require.NoError(t, err)
	assert.Len(t, items, 2, "result list is capped at the caller limit")
	assert.Equal(t, 2, engine.BufferLen(), "buffer trims FIFO to its own bound")
}

func TestEngine_BackendFailureSurfaced(t *testing.T) {
	m := model.NewMockModel("curator")
	m.SetError(errors.New("quota exceeded"))

	engine := NewEngine(m)
	_, err := engine.Discover(context.Background(), core.NewProfile("u"), 5)
	var backendErr *core.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "discover", backendErr.Op)
}

func TestEngine_RecentDiscoveriesNewestFirst(t *testing.T) {
	engine := NewEngine(nil)
	a := core.NewContentItem("A", "http://a", core.ContentArticle, "")
	b := core.NewContentItem("B", "http://b", core.ContentArticle, "")
	engine.Seed(a, b)

	recent := engine.RecentDiscoveries(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "B", recent[0].Title)
}

func TestStripListPrefix(t *testing.T) {
	for _, tc := range []struct {
		in       string
		want     string
		numbered bool
	}{
		{"1. Foo", "Foo", true},
		{"12) Bar", "Bar", true},
		{"- 3. Baz", "Baz", true},
		{"Plain prose", "Plain prose", false},
		{"2026 in review", "2026 in review", false},
	} {
		got, numbered := stripListPrefix(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.numbered, numbered, tc.in)
	}
}
