package model

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/sidekick/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Model = (*MockModel)(nil)

func TestRegistry(t *testing.T) {
	t.Run("RegisterAndNew", func(t *testing.T) {
		Register("fake", func(cfg Config) (Model, error) {
			return NewMockModel(cfg.Model), nil
		})

		m, err := New(Config{Provider: "fake", Model: "fake-1"})
		require.NoError(t, err)
		assert.Equal(t, "fake-1", m.Info().Name)
		assert.Contains(t, Providers(), "fake")
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		_, err := New(Config{Provider: "nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})

	t.Run("DuplicatePanics", func(t *testing.T) {
		Register("fake-dup", func(cfg Config) (Model, error) { return nil, nil })
		assert.Panics(t, func() {
			Register("fake-dup", func(cfg Config) (Model, error) { return nil, nil })
		})
	})

	t.Run("NilFactoryPanics", func(t *testing.T) {
		assert.Panics(t, func() { Register("fake-nil", nil) })
	})
}

func TestApplyOptions(t *testing.T) {
	opts := ApplyOptions(
		WithSystemInstruction("be terse"),
		WithTemperature(0.2),
		WithMaxTokens(128),
	)
	assert.Equal(t, "be terse", opts.SystemInstruction)
	assert.Equal(t, 0.2, opts.Temperature)
	assert.Equal(t, int64(128), opts.MaxTokens)

	defaults := ApplyOptions()
	assert.Equal(t, float64(-1), defaults.Temperature, "unset temperature defers to the provider")
}

func TestMockModel_Generate(t *testing.T) {
	m := NewMockModel("test")
	m.AddResponse("known", "canned")

	got, err := m.Generate(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, "canned", got)

	got, err = m.Generate(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: unknown", got)

	assert.Equal(t, []string{"known", "unknown"}, m.Calls())
}

func TestMockModel_ChatUsesLastMessage(t *testing.T) {
	m := NewMockModel("test")
	m.AddResponse("second", "reply")

	got, err := m.Chat(context.Background(), []core.Message{
		{Role: core.RoleUser, Content: "first"},
		{Role: core.RoleAssistant, Content: "ignored"},
		{Role: core.RoleUser, Content: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, "reply", got)
}

func TestMockModel_Stream(t *testing.T) {
	m := NewMockModel("test")
	m.AddResponse("go", "abc")

	chunks, errs := m.GenerateStream(context.Background(), "go")
	var full strings.Builder
	for chunk := range chunks {
		full.WriteString(chunk)
	}
	require.NoError(t, <-errs)
	assert.Equal(t, "abc", full.String())
}

func TestMockModel_Error(t *testing.T) {
	m := NewMockModel("test")
	wantErr := errors.New("boom")
	m.SetError(wantErr)

	_, err := m.Generate(context.Background(), "anything")
	require.ErrorIs(t, err, wantErr)

	chunks, errs := m.GenerateStream(context.Background(), "anything")
	for range chunks {
	}
	require.ErrorIs(t, <-errs, wantErr)
}

func TestMockModel_Close(t *testing.T) {
	m := NewMockModel("test")
	assert.False(t, m.Closed())
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
}
