package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jamesainslie/shift/pkg/shift/fsutil"
	"github.com/jamesainslie/shift/pkg/shift/types"
)

// Undo reverts the single most recent completed batch. Records with failed
// or undone status are skipped and never considered, and undo never
// cascades to older eligible records.
//
// The returned bool reports whether anything was undone. Per-index failures
// are logged and counted but do not stop the remaining indices; the record
// is marked undone as soon as at least one index succeeded, which prevents
// re-undoing a partially reverted batch. A batch where every index failed
// (or that has nothing to revert) stays completed.
func (s *Store) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()

	idx := -1
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Status == StatusCompleted {
			idx = i
			break
		}
	}
	if idx < 0 {
		logger.Info("no completed operation to undo")
		return false, nil
	}

	rec := &records[idx]
	logger.Info("undoing operation", "id", rec.ID, "type", rec.Type)

	var undone int
	switch rec.Type {
	case types.OpCut, types.OpRename:
		undone = undoDestructive(rec)
	case types.OpCopy:
		undone = undoCopy(rec)
	default:
		return false, fmt.Errorf("cannot undo record %s: %w: %q", rec.ID, types.ErrUnknownOperation, rec.Type)
	}

	if undone == 0 {
		logger.Warn("undo reverted nothing", "id", rec.ID)
		return false, nil
	}

	now := time.Now()
	rec.Status = StatusUndone
	rec.UndoTimestamp = &now
	if err := s.write(records); err != nil {
		return false, fmt.Errorf("recording undo: %w", err)
	}

	logger.Info("undo complete", "id", rec.ID, "reverted", undone)
	return true, nil
}

// undoDestructive moves each backup back to its source path and removes the
// destination artifact, index by index.
func undoDestructive(rec *Record) int {
	n := len(rec.BackupPaths)
	if len(rec.TargetPaths) < n {
		n = len(rec.TargetPaths)
	}

	var undone int
	for i := 0; i < n; i++ {
		backupPath := rec.BackupPaths[i]
		targetPath := rec.TargetPaths[i]
		sourcePath := rec.SourcePaths[i]

		if _, err := os.Stat(backupPath); err != nil {
			logger.Warn("backup missing, cannot revert item", "backup", backupPath, "source", sourcePath)
			continue
		}

		if err := restoreItem(backupPath, sourcePath); err != nil {
			logger.Error("reverting item failed", "source", sourcePath, "error", err)
			continue
		}

		if targetPath != sourcePath {
			if _, err := os.Stat(targetPath); err == nil {
				if err := fsutil.Remove(targetPath); err != nil {
					logger.Error("removing destination artifact failed", "target", targetPath, "error", err)
				}
			}
		}

		undone++
		logger.Debug("item reverted", "target", targetPath, "source", sourcePath)
	}
	return undone
}

// undoCopy deletes every destination artifact; copy never touched sources.
func undoCopy(rec *Record) int {
	var undone int
	for _, targetPath := range rec.TargetPaths {
		if _, err := os.Stat(targetPath); err != nil {
			logger.Warn("destination already gone", "target", targetPath)
			continue
		}
		if err := fsutil.Remove(targetPath); err != nil {
			logger.Error("removing destination failed", "target", targetPath, "error", err)
			continue
		}
		undone++
		logger.Debug("destination removed", "target", targetPath)
	}
	return undone
}

// restoreItem moves a backup back into place, recreating parents.
func restoreItem(backupPath, sourcePath string) error {
	if err := os.MkdirAll(filepath.Dir(sourcePath), 0o755); err != nil {
		return fmt.Errorf("recreating parent of %q: %w", sourcePath, err)
	}
	return fsutil.Move(backupPath, sourcePath)
}
