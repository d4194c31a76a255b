package profile

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
	// Logger receives load/save diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// FileStore is a file-backed core.ProfileStore keeping one JSON document per
// user id under a root directory (profile_<id>.json). Writes are whole-file
// with an atomic rename under the single-writer-per-user assumption.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	logger logging.Logger
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
	return &FileStore{dir: dir, logger: opts.Logger}
}

// Load reads the user's profile document. A missing file yields a default
// profile for the user id; an unparsable file is preserved on disk and a
// default profile is returned. Neither case is an error.
func (s *FileStore) Load(userID string) (*core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(userID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return core.NewProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	p := &core.Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		s.logger.Warn("profile file unparsable, using defaults", "user_id", userID, "path", path, "error", err)
		if renameErr := fileio.PreserveCorrupt(path); renameErr != nil {
			s.logger.Error("failed to preserve corrupt profile file", "path", path, "error", renameErr)
		}
		return core.NewProfile(userID), nil
	}
	normalizeLoaded(p, userID)
	return p, nil
}

// Save serializes the profile to the user's document atomically.
func (s *FileStore) Save(p *core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := p.Clone()
	data, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := fileio.WriteAtomic(s.path(clone.UserID), data); err != nil {
		return fmt.Errorf("save profile for %q: %w", clone.UserID, err)
	}
	s.logger.Debug("profile saved", "user_id", clone.UserID)
	return nil
}

// normalizeLoaded repairs nil maps/slices from hand-edited or older
// documents so callers never see them.
func normalizeLoaded(p *core.Profile, userID string) {
	if p.UserID == "" {
		p.UserID = userID
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	if p.Preferences == nil {
		p.Preferences = map[string]core.Preference{}
	}
	if p.LearnedPatterns == nil {
		p.LearnedPatterns = map[string]string{}
	}
	if p.Updated.Before(p.Created) {
		p.Updated = p.Created
	}
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, "profile_"+fileio.SanitizeID(userID)+".json")
}
