package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/internal/fileio"
	"github.com/hupe1980/sidekick/logging"
)

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	// MaxHistory bounds freshly created memories. Non-positive selects
	// core.DefaultMaxHistory.
	MaxHistory int
	// Logger receives load/save diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// FileStore is a file-backed core.MemoryStore keeping one JSON document per
// user id under a root directory (memory_<id>.json). Writes are whole-file
// with an atomic rename; concurrent writers for the same user are expected
// to be serialized by the caller (single-writer assumption).
type FileStore struct {
	mu         sync.Mutex
	dir        string
	maxHistory int
	logger     logging.Logger
}

// NewFileStore constructs a FileStore rooted at dir.
func NewFileStore(dir string, optFns ...func(o *FileStoreOptions)) *FileStore {
	opts := FileStoreOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &FileStore{dir: dir, maxHistory: opts.MaxHistory, logger: opts.Logger}
}

// Load reads the user's memory document. A missing file yields a freshly
// initialized empty memory; an unparsable file is preserved on disk and a
// fresh memory is returned. Neither case is an error.
func (s *FileStore) Load(userID string) (*core.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(userID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return core.NewMemory(s.maxHistory), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read memory file: %w", err)
	}

	mem := &core.Memory{}
	if err := json.Unmarshal(data, mem); err != nil {
		s.logger.Warn("memory file unparsable, starting fresh", "user_id", userID, "path", path, "error", err)
		if renameErr := fileio.PreserveCorrupt(path); renameErr != nil {
			s.logger.Error("failed to preserve corrupt memory file", "path", path, "error", renameErr)
		}
		return core.NewMemory(s.maxHistory), nil
	}
	if mem.History == nil {
		mem.History = []core.Interaction{}
	}
	if mem.Context == nil {
		mem.Context = map[string]any{}
	}
	if mem.MaxHistory <= 0 {
		mem.MaxHistory = s.effectiveMax()
	}
	// a hand-edited document can exceed its own bound; keep only the
	// most recent entries so the bound holds from load onward
	if n := len(mem.History); n > mem.MaxHistory {
		mem.History = append([]core.Interaction{}, mem.History[n-mem.MaxHistory:]...)
	}
	return mem, nil
}

// Save serializes the full memory to the user's document atomically.
func (s *FileStore) Save(userID string, mem *core.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(mem.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}
	if err := fileio.WriteAtomic(s.path(userID), data); err != nil {
		return fmt.Errorf("save memory for %q: %w", userID, err)
	}
	s.logger.Debug("memory saved", "user_id", userID)
	return nil
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, "memory_"+fileio.SanitizeID(userID)+".json")
}

func (s *FileStore) effectiveMax() int {
	if s.maxHistory <= 0 {
		return core.DefaultMaxHistory
	}
	return s.maxHistory
}
