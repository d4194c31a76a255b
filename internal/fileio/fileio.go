// Package fileio contains small filesystem helpers shared by the file-backed
// stores: atomic whole-file writes, corrupt-file preservation and user id
// sanitization for path construction.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteAtomic writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partial document. Parent
// directories are created as needed.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// PreserveCorrupt moves an unparsable document aside (path + ".corrupt") so
// it survives for forensic inspection instead of being overwritten on the
// next save. An existing .corrupt file is replaced; keeping the newest
// corruption is more useful than the oldest.
func PreserveCorrupt(path string) error {
	return os.Rename(path, path+".corrupt")
}

// SanitizeID maps a user id onto a filesystem-safe token. Anything outside
// [a-zA-Z0-9._-] is replaced with '_'; an empty result becomes "default".
func SanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}
