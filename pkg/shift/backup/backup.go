// Package backup manages the staging area that holds duplicates of items
// about to be destructively moved. Each staged item lives in its own
// collision-resistant slot; slots are released by a successful undo or by
// pruning everything the newest completed journal record does not reference.
package backup

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/shift/pkg/shift/fsutil"
)

// Store is a backup staging area rooted at a single directory.
type Store struct {
	dir string
}

// New creates a Store for the given directory. The directory is not created
// until the first Stage call.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("backup directory cannot be empty")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the staging directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Stage duplicates the item at path into a fresh slot and returns the slot
// path. Files keep content and metadata; directories are copied whole.
func (s *Store) Stage(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("staging backup of %q: %w", path, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	slot := filepath.Join(s.dir, slotName(filepath.Base(path)))
	if info.IsDir() {
		err = fsutil.CopyTree(path, slot)
	} else {
		err = fsutil.CopyFile(path, slot)
	}
	if err != nil {
		// Do not leave a half-written slot behind.
		_ = os.RemoveAll(slot)
		return "", fmt.Errorf("staging backup of %q: %w", path, err)
	}

	return slot, nil
}

// Restore moves a staged backup back to its original location, creating
// parent directories as needed.
func (s *Store) Restore(slot, originalPath string) error {
	if _, err := os.Stat(slot); err != nil {
		return fmt.Errorf("backup slot missing: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(originalPath), 0o755); err != nil {
		return fmt.Errorf("recreating parent of %q: %w", originalPath, err)
	}
	if err := fsutil.Move(slot, originalPath); err != nil {
		return fmt.Errorf("restoring %q: %w", originalPath, err)
	}
	return nil
}

// Prune deletes every slot in the staging area that is not in keep.
// Individual deletion failures are skipped; pruning is opportunistic and
// never blocks the primary operation path.
func (s *Store) Prune(keep map[string]bool) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading backup directory: %w", err)
	}

	for _, e := range entries {
		slot := filepath.Join(s.dir, e.Name())
		if keep[slot] {
			continue
		}
		_ = os.RemoveAll(slot)
	}
	return nil
}

// RemoveAll deletes the entire staging area.
func (s *Store) RemoveAll() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("removing backup directory: %w", err)
	}
	return nil
}

// slotName builds a collision-resistant slot name like
// "backup_report.txt_3f9a2c". Falls back to the pid when crypto/rand fails.
func slotName(base string) string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Sprintf("backup_%s_%d", base, os.Getpid())
	}
	return fmt.Sprintf("backup_%s_%s", base, hex.EncodeToString(suffix))
}
