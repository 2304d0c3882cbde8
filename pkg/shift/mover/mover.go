// Package mover executes single-item transfers for the batch drivers. Copy
// duplicates content and metadata without touching the source. Destructive
// moves follow a backup-before-mutate protocol: stage a duplicate, move,
// verify, and on failure restore the staged copy best-effort before
// propagating the original error.
package mover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/shift/pkg/shift/backup"
	"github.com/jamesainslie/shift/pkg/shift/fsutil"
	"github.com/jamesainslie/shift/pkg/shift/logging"
)

var logger = logging.Get("mover")

// ErrVerification indicates a move that raised no error but failed the
// post-condition check (destination present, source gone). It is returned
// only in strict mode; otherwise the condition is logged as a warning.
var ErrVerification = errors.New("move verification failed")

// Mover performs copy, destructive move, and merge operations.
type Mover struct {
	// Backups stages duplicates before destructive mutations.
	Backups *backup.Store

	// Strict turns a failed post-move verification into an error instead
	// of a logged warning.
	Strict bool
}

// Copy duplicates src to dst. When replace is set an existing destination
// subtree is removed first (overwrite policy); otherwise the resolver has
// already guaranteed dst does not exist. The source is untouched on
// failure, so no backup is taken.
func (m *Mover) Copy(src, dst string, replace bool) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating parent of %q: %w", dst, err)
	}

	if replace {
		if err := removeExisting(dst); err != nil {
			return err
		}
	}

	if err := fsutil.Copy(src, dst); err != nil {
		return fmt.Errorf("copying %q to %q: %w", src, dst, err)
	}

	logger.Debug("copied", "source", src, "target", dst)
	return nil
}

// Move destructively relocates src to dst. The returned backup path is
// non-empty as soon as staging succeeded, even when the move itself failed,
// so callers can journal the slot.
//
// An empty backup path with a non-nil error means staging failed and the
// source was never mutated.
func (m *Mover) Move(src, dst string, replace bool) (string, error) {
	slot, err := m.Backups.Stage(src)
	if err != nil {
		return "", fmt.Errorf("backing up %q: %w", src, err)
	}
	logger.Debug("backup staged", "source", src, "slot", slot)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return slot, m.restoreAfter(slot, src, err)
	}

	if replace {
		if err := removeExisting(dst); err != nil {
			return slot, m.restoreAfter(slot, src, err)
		}
	}

	if err := fsutil.Move(src, dst); err != nil {
		return slot, m.restoreAfter(slot, src, err)
	}

	if err := m.verify(src, dst); err != nil {
		return slot, err
	}

	logger.Debug("moved", "source", src, "target", dst)
	return slot, nil
}

// Merge recursively unions srcDir into dstDir. Nested file conflicts always
// produce a uniquely suffixed sibling regardless of the policy chosen for
// the outer operation. Any failure aborts the whole merge and propagates
// without partial rollback at this layer.
func (m *Mover) Merge(srcDir, dstDir string) error {
	if err := merge(srcDir, dstDir); err != nil {
		return fmt.Errorf("merging %q into %q: %w", srcDir, dstDir, err)
	}
	logger.Debug("merged", "source", srcDir, "target", dstDir)
	return nil
}

// restoreAfter attempts to put the staged backup back at the original
// source path after a failed move, then returns the original error. When
// the restore itself fails the backup is left in place and its location
// reported; that state requires manual recovery.
func (m *Mover) restoreAfter(slot, src string, cause error) error {
	if _, statErr := os.Stat(slot); statErr != nil {
		logger.Error("backup slot missing, source may be lost", "source", src, "slot", slot)
		return cause
	}

	if err := m.Backups.Restore(slot, src); err != nil {
		logger.Error("restore after failed move also failed; backup retained",
			"source", src, "slot", slot, "error", err)
		return cause
	}

	logger.Warn("move failed, source restored from backup", "source", src, "error", cause)
	return cause
}

// verify checks the post-conditions of a destructive move.
func (m *Mover) verify(src, dst string) error {
	_, dstErr := os.Stat(dst)
	_, srcErr := os.Stat(src)
	if dstErr == nil && srcErr != nil {
		return nil
	}

	if m.Strict {
		return fmt.Errorf("%w: source %q, target %q", ErrVerification, src, dst)
	}
	logger.Warn("move may not have fully completed",
		"source", src, "source_present", srcErr == nil,
		"target", dst, "target_present", dstErr == nil)
	return nil
}

// removeExisting deletes whatever sits at path, if anything.
func removeExisting(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return nil
	}
	if err := fsutil.Remove(path); err != nil {
		return fmt.Errorf("removing existing %q: %w", path, err)
	}
	return nil
}
