package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// RotationConfig configures log file rotation behavior.
type RotationConfig struct {
	// MaxSize is the maximum size in bytes before rotation.
	// Zero uses the default of 10MB.
	MaxSize int64

	// MaxBackups is the maximum number of rotated files to keep.
	// Zero means keep all rotated files.
	MaxBackups int
}

// DefaultRotationConfig returns sensible defaults for rotation.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 5,
	}
}

// RotatingWriter implements io.WriteCloser with size-based log rotation.
// It is safe for concurrent use from multiple goroutines.
type RotatingWriter struct {
	path string
	cfg  RotationConfig
	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRotatingWriter creates a rotating writer for the given log path,
// creating parent directories as needed.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultRotationConfig().MaxSize
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &RotatingWriter{path: path, cfg: cfg}
	if err := w.openFile(); err != nil {
		return nil, err
	}

	return w, nil
}

// Write writes data to the log file, rotating first when the write would
// push the file past the size limit.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.cfg.MaxSize {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the underlying log file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// openFile opens the log file for appending and records its current size.
func (w *RotatingWriter) openFile() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("statting log file: %w", err)
	}

	w.file = f
	w.size = info.Size()
	return nil
}

// rotate renames the current file to a numbered backup and reopens.
// Must be called with w.mu held.
func (w *RotatingWriter) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return err
		}
		w.file = nil
	}

	// Shift existing backups up: shift.log.2 -> shift.log.3, etc.
	backups, err := w.listBackups()
	if err != nil {
		return err
	}
	for i := len(backups); i >= 1; i-- {
		old := fmt.Sprintf("%s.%d", w.path, i)
		if _, err := os.Stat(old); err != nil {
			continue
		}
		if err := os.Rename(old, fmt.Sprintf("%s.%d", w.path, i+1)); err != nil {
			return err
		}
	}

	if err := os.Rename(w.path, w.path+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := w.openFile(); err != nil {
		return err
	}

	w.cleanup()
	return nil
}

// listBackups returns the numbered backup files for this log, sorted.
func (w *RotatingWriter) listBackups() ([]string, error) {
	matches, err := filepath.Glob(w.path + ".*")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// cleanup removes backups beyond MaxBackups. Failures are ignored; cleanup
// must never break logging.
func (w *RotatingWriter) cleanup() {
	if w.cfg.MaxBackups <= 0 {
		return
	}
	for i := w.cfg.MaxBackups + 1; ; i++ {
		stale := fmt.Sprintf("%s.%d", w.path, i)
		if _, err := os.Stat(stale); err != nil {
			return
		}
		_ = os.Remove(stale)
	}
}
