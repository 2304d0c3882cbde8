// Package journal persists the append-only record of batch operations and
// implements single-level undo. The on-disk format is a single JSON array
// of records; this file is the sole cross-run state and must stay
// compatible between versions. The journal is read-modify-written as a
// whole, so one running batch must own it exclusively.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jamesainslie/shift/pkg/shift/logging"
	"github.com/jamesainslie/shift/pkg/shift/types"
)

// logger is the package-level logger for journal operations.
var logger = logging.Get("journal")

// Status describes the lifecycle state of a record.
type Status string

const (
	// StatusCompleted marks a batch that ran to the end.
	StatusCompleted Status = "completed"
	// StatusFailed marks a batch that aborted; failed records are never
	// considered by undo.
	StatusFailed Status = "failed"
	// StatusUndone marks a record reverted by undo.
	StatusUndone Status = "undone"
)

// Record is one journaled batch operation. SourcePaths, TargetPaths and,
// for destructive operations, BackupPaths are index-aligned.
type Record struct {
	ID            string          `json:"id"`
	Type          types.Operation `json:"type"`
	SourcePaths   []string        `json:"source_paths"`
	TargetPaths   []string        `json:"target_paths"`
	BackupPaths   []string        `json:"backup_paths"`
	Timestamp     time.Time       `json:"timestamp"`
	Status        Status          `json:"status"`
	Success       bool            `json:"success"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	UndoTimestamp *time.Time      `json:"undo_timestamp,omitempty"`
}

// NewRecord creates a record with a fresh ID for a batch about to run.
// Paths are filled in by the driver as the batch progresses.
func NewRecord(op types.Operation) *Record {
	return &Record{
		ID:          uuid.New().String(),
		Type:        op,
		SourcePaths: []string{},
		TargetPaths: []string{},
		BackupPaths: []string{},
	}
}

// Store manages the journal file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store for the given journal path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("journal path cannot be empty")
	}
	return &Store{path: path}, nil
}

// Path returns the journal file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all records, oldest first. A missing, unreadable or malformed
// journal is treated as empty history; the next write overwrites it.
func (s *Store) Load() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads the journal without locking. Must be called with s.mu held.
func (s *Store) load() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("journal unreadable, treating as empty", "path", s.path, "error", err)
		}
		return []Record{}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("journal malformed, treating as empty", "path", s.path, "error", err)
		return []Record{}
	}
	return records
}

// write persists the full record list atomically via a temp file and
// rename. Must be called with s.mu held.
func (s *Store) write(records []Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling journal: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing journal temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing journal: %w", err)
	}
	return nil
}

// Append stamps and appends one record. It is invoked exactly once per
// batch regardless of outcome, so even failed runs leave a trace.
func (s *Store) Append(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.Timestamp = time.Now()
	if rec.Success {
		rec.Status = StatusCompleted
	} else {
		rec.Status = StatusFailed
	}

	records := append(s.load(), *rec)
	if err := s.write(records); err != nil {
		return fmt.Errorf("appending journal record: %w", err)
	}

	logger.Debug("journal record appended",
		"id", rec.ID, "type", rec.Type, "status", rec.Status,
		"items", len(rec.TargetPaths))
	return nil
}

// Newest returns the most recent record with the given status, or nil.
func (s *Store) Newest(status Status) *Record {
	records := s.Load()
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Status == status {
			rec := records[i]
			return &rec
		}
	}
	return nil
}

// List returns up to limit records, newest first. A non-positive limit
// returns everything.
func (s *Store) List(limit int) []Record {
	records := s.Load()
	out := make([]Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (*Record, error) {
	for _, rec := range s.Load() {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("journal record not found: %s", id)
}

// Clear discards the entire history.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write([]Record{}); err != nil {
		return fmt.Errorf("clearing journal: %w", err)
	}
	logger.Info("journal cleared", "path", s.path)
	return nil
}

// Truncate drops the oldest records beyond max. Older history is discarded
// without archival.
func (s *Store) Truncate(max int) error {
	if max <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	if len(records) <= max {
		return nil
	}

	dropped := len(records) - max
	if err := s.write(records[dropped:]); err != nil {
		return fmt.Errorf("truncating journal: %w", err)
	}
	logger.Info("journal truncated", "dropped", dropped, "kept", max)
	return nil
}
