package sidekick

import (
	"context"
	"testing"

	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EndToEnd(t *testing.T) {
	m := model.NewMockModel("test")
	m.AddResponse("hello", "hi there")
	m.SetFallback("1. Orbital Mechanics Primer | article | https://example.com/orbits | The basics of orbital maneuvers")

	s, err := New("alice", func(o *Options) {
		o.Model = m
		o.DataDir = t.TempDir()
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.AddInterest("Space Exploration"))

	reply, err := s.ProcessMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	items, err := s.DiscoverContent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Orbital Mechanics Primer", items[0].Title)
	assert.Equal(t, core.ContentArticle, items[0].Type)

	st := s.Status()
	assert.Equal(t, []string{"space exploration"}, st.Interests)
	assert.Equal(t, 1, st.InteractionCount)
}

func TestNew_FromModelConfig(t *testing.T) {
	model.Register("session-test", func(cfg model.Config) (model.Model, error) {
		return model.NewMockModel(cfg.Model), nil
	})

	s, err := New("bob", func(o *Options) {
		o.ModelConfig = &model.Config{Provider: "session-test", Model: "fake-1"}
		o.DataDir = t.TempDir()
	})
	require.NoError(t, err)
	defer s.Close()

	st := s.Status()
	require.NotNil(t, st.Model)
	assert.Equal(t, "fake-1", st.Model.Name)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("carol", func(o *Options) {
		o.ModelConfig = &model.Config{Provider: "does-not-exist"}
	})
	require.Error(t, err)
}

func TestNew_NoModelDegrades(t *testing.T) {
	s, err := New("dave", func(o *Options) { o.DataDir = t.TempDir() })
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ProcessMessage(context.Background(), "hi")
	require.ErrorIs(t, err, core.ErrNoModel)

	items, err := s.DiscoverContent(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}
