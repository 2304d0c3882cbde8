// Package batch orchestrates manifest-driven relocation runs. A driver
// iterates manifest entries, locates each source item, resolves its
// destination against the conflict policy, hands the transfer to the mover
// (or the merger for merge-on-folder), and journals exactly one record for
// the whole batch regardless of outcome.
//
// Failure policy: a missing individual item is a warning and the batch
// continues. Failures before any backup is staged abort the batch with the
// source untouched. Failures after a backup is staged abort the batch once
// the journal has persisted whatever progress was made; the staged slots
// stay referenced by the failed record for manual recovery.
package batch

import (
	"errors"
	"fmt"
	"os"

	"github.com/jamesainslie/shift/pkg/shift/backup"
	"github.com/jamesainslie/shift/pkg/shift/fsutil"
	"github.com/jamesainslie/shift/pkg/shift/journal"
	"github.com/jamesainslie/shift/pkg/shift/logging"
	"github.com/jamesainslie/shift/pkg/shift/match"
	"github.com/jamesainslie/shift/pkg/shift/mover"
	"github.com/jamesainslie/shift/pkg/shift/resolve"
	"github.com/jamesainslie/shift/pkg/shift/types"
)

var logger = logging.Get("batch")

// DefaultMaxRecords caps journal length during housekeeping.
const DefaultMaxRecords = 5000

// Options configures a Driver.
type Options struct {
	// Journal persists one record per batch. Required.
	Journal *journal.Store

	// Backups stages duplicates before destructive mutations. Required.
	Backups *backup.Store

	// Policy resolves destination conflicts. Empty uses types.DefaultPolicy.
	Policy types.Policy

	// Cut makes the search, extract and path-list drivers move items
	// instead of copying them.
	Cut bool

	// Strict fails a batch item whose post-move verification is
	// inconclusive instead of logging a warning.
	Strict bool

	// Exclude holds glob patterns ignored by the matcher.
	Exclude []string

	// MaxRecords caps journal length during housekeeping.
	// Zero uses DefaultMaxRecords.
	MaxRecords int
}

// Driver runs batches against one journal and one backup store. Drivers are
// not safe for concurrent use; the journal and staging area assume a single
// running batch.
type Driver struct {
	opts    Options
	matcher *match.Matcher
	mover   *mover.Mover
}

// NewDriver creates a Driver from options.
func NewDriver(opts Options) (*Driver, error) {
	if opts.Journal == nil {
		return nil, errors.New("batch driver requires a journal store")
	}
	if opts.Backups == nil {
		return nil, errors.New("batch driver requires a backup store")
	}
	if opts.Policy == "" {
		opts.Policy = types.DefaultPolicy
	}
	if opts.MaxRecords == 0 {
		opts.MaxRecords = DefaultMaxRecords
	}

	return &Driver{
		opts:    opts,
		matcher: &match.Matcher{Exclude: opts.Exclude},
		mover:   &mover.Mover{Backups: opts.Backups, Strict: opts.Strict},
	}, nil
}

// Rename pairs an original name with the name it was given.
type Rename struct {
	From string
	To   string
}

// Result reports the outcome of one batch. Record is the journaled record,
// including its ID and final status.
type Result struct {
	Record      *journal.Record
	Transferred []string
	Renamed     []Rename
	Skipped     []string
	Missing     []string
}

// Undo reverts the most recent completed batch and prunes housekeeping
// state afterwards.
func (d *Driver) Undo() (bool, error) {
	undone, err := d.opts.Journal.Undo()
	d.housekeep()
	return undone, err
}

// run wraps one batch body with journaling: the record is appended in every
// exit path, carrying the partial progress the body accumulated, and
// housekeeping runs after the journal write.
func (d *Driver) run(op types.Operation, body func(rec *journal.Record, res *Result) error) (*Result, error) {
	rec := journal.NewRecord(op)
	res := &Result{Record: rec}

	runErr := body(rec, res)

	rec.Success = runErr == nil
	if runErr != nil {
		rec.ErrorMessage = runErr.Error()
	}
	if err := d.opts.Journal.Append(rec); err != nil {
		logger.Error("journaling batch failed", "id", rec.ID, "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	d.housekeep()

	if runErr != nil {
		logger.Error("batch failed", "id", rec.ID, "type", op, "error", runErr)
		return res, runErr
	}
	logger.Info("batch complete", "id", rec.ID, "type", op,
		"transferred", len(res.Transferred), "skipped", len(res.Skipped), "missing", len(res.Missing))
	return res, nil
}

// transfer relocates one located item to its computed destination. A nil
// return means the item was handled (transferred or skipped by policy); an
// error aborts the batch.
func (d *Driver) transfer(rec *journal.Record, res *Result, op types.Operation, src, dst string, isDir bool) error {
	resolved, ok := resolve.Resolve(src, dst, d.opts.Policy, isDir)
	if !ok {
		logger.Info("skipping conflicting item", "target", dst)
		res.Skipped = append(res.Skipped, dst)
		return nil
	}

	replace := false
	mergeInto := false
	if _, err := os.Lstat(resolved); err == nil {
		// The resolver returns an existing path only for overwrite and
		// merge-on-folder.
		if d.opts.Policy == types.PolicyMerge && isDir {
			mergeInto = true
		} else {
			replace = true
		}
	}

	if mergeInto {
		return d.mergeItem(rec, res, op, src, resolved)
	}

	if op.Destructive() {
		slot, err := d.mover.Move(src, resolved, replace)
		if slot != "" {
			rec.SourcePaths = append(rec.SourcePaths, src)
			rec.BackupPaths = append(rec.BackupPaths, slot)
		}
		if err != nil {
			return err
		}
	} else {
		if err := d.mover.Copy(src, resolved, replace); err != nil {
			return err
		}
		rec.SourcePaths = append(rec.SourcePaths, src)
	}

	rec.TargetPaths = append(rec.TargetPaths, resolved)
	res.Transferred = append(res.Transferred, resolved)
	return nil
}

// mergeItem unions a source directory into an existing destination
// directory. In cut mode the source is staged and removed after a
// successful merge; the merge itself never mutates the source.
//
// The destination directory is journaled as a single target path, so
// undoing a merge removes that directory whole, pre-existing content
// included.
func (d *Driver) mergeItem(rec *journal.Record, res *Result, op types.Operation, src, dst string) error {
	if op.Destructive() {
		slot, err := d.opts.Backups.Stage(src)
		if err != nil {
			return fmt.Errorf("backing up %q: %w", src, err)
		}
		rec.SourcePaths = append(rec.SourcePaths, src)
		rec.BackupPaths = append(rec.BackupPaths, slot)

		if err := d.mover.Merge(src, dst); err != nil {
			return err
		}
		if err := fsutil.Remove(src); err != nil {
			return fmt.Errorf("removing merged source %q: %w", src, err)
		}
	} else {
		if err := d.mover.Merge(src, dst); err != nil {
			return err
		}
		rec.SourcePaths = append(rec.SourcePaths, src)
	}

	rec.TargetPaths = append(rec.TargetPaths, dst)
	res.Transferred = append(res.Transferred, dst)
	return nil
}

// ensureRoots validates the source tree and creates the destination root.
// A missing source tree is fatal for the whole batch.
func ensureRoots(sourceRoot, targetRoot string) error {
	info, err := os.Stat(sourceRoot)
	if err != nil {
		return fmt.Errorf("source tree does not exist: %q: %w", sourceRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source tree is not a directory: %q", sourceRoot)
	}
	if err := os.MkdirAll(targetRoot, 0o755); err != nil {
		return fmt.Errorf("creating destination root %q: %w", targetRoot, err)
	}
	return nil
}

// housekeep prunes backups not referenced by the newest completed record
// and truncates the journal. Neither blocks the primary operation path.
func (d *Driver) housekeep() {
	keep := make(map[string]bool)
	if rec := d.opts.Journal.Newest(journal.StatusCompleted); rec != nil {
		for _, slot := range rec.BackupPaths {
			keep[slot] = true
		}
	}
	// A failed batch may have left slots behind for manual recovery; keep
	// them as long as it is the newest record.
	if last := d.opts.Journal.List(1); len(last) == 1 && last[0].Status == journal.StatusFailed {
		for _, slot := range last[0].BackupPaths {
			keep[slot] = true
		}
	}
	if err := d.opts.Backups.Prune(keep); err != nil {
		logger.Warn("pruning backups failed", "error", err)
	}
	if err := d.opts.Journal.Truncate(d.opts.MaxRecords); err != nil {
		logger.Warn("truncating journal failed", "error", err)
	}
}
