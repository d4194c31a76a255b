package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/sidekick/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ core.MemoryStore = (*FileStore)(nil)

func TestFileStore_MissingFileYieldsFreshMemory(t *testing.T) {
	store := NewFileStore(t.TempDir())
	mem, err := store.Load("newcomer")
	require.NoError(t, err)
	assert.Equal(t, 0, mem.Len())
	assert.Equal(t, core.DefaultMaxHistory, mem.MaxHistory)
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	mem := core.NewMemory(20)
	first := mem.AddInteraction(core.RoleUser, "hello", map[string]any{"channel": "cli"})
	mem.AddInteraction(core.RoleAssistant, "hi there", nil)
	mem.UpdateContext("topic", "greetings")

	require.NoError(t, store.Save("alice", mem))

	loaded, err := store.Load("alice")
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, 20, loaded.MaxHistory)

	got := loaded.Recent(2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, "hello", got[0].Content)
	assert.True(t, got[0].Timestamp.Equal(first.Timestamp), "timestamps must survive the round trip")
	assert.Equal(t, "cli", got[0].Metadata["channel"])

	topic, ok := loaded.GetContext("topic")
	require.True(t, ok)
	assert.Equal(t, "greetings", topic)
}

func TestFileStore_CorruptFilePreserved(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	path := filepath.Join(dir, "memory_bob.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	mem, err := store.Load("bob")
	require.NoError(t, err, "corrupt resource must degrade, not fail")
	assert.Equal(t, 0, mem.Len())

	// original bytes survive for forensic inspection
	preserved, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(preserved))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt file should be moved aside")
}

func TestFileStore_OversizedHistoryTrimmedOnLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	// a hand-edited document whose history exceeds its own bound
	doc := `{
  "history": [
    {"id": "1", "role": "user", "content": "one"},
    {"id": "2", "role": "assistant", "content": "two"},
    {"id": "3", "role": "user", "content": "three"},
    {"id": "4", "role": "assistant", "content": "four"}
  ],
  "context": {},
  "max_history": 2
}`
	path := filepath.Join(dir, "memory_carol.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	mem, err := store.Load("carol")
	require.NoError(t, err)
	require.Equal(t, 2, mem.Len(), "history must respect the bound from load onward")

	got := mem.Recent(2)
	assert.Equal(t, "three", got[0].Content, "only the most recent entries are kept")
	assert.Equal(t, "four", got[1].Content)
}

func TestFileStore_SanitizesUserID(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Save("../evil/../../user", core.NewMemory(5)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "memory_.._evil_.._.._user.json", entries[0].Name())
}
