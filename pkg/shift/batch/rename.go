package batch

import (
	"os"

	"github.com/jamesainslie/shift/pkg/shift/journal"
	"github.com/jamesainslie/shift/pkg/shift/manifest"
	"github.com/jamesainslie/shift/pkg/shift/types"
)

// RenameAbsolute renames files whose manifest entries carry absolute source
// and target paths. Every rename is destructive and follows the
// backup-before-mutate protocol. A source listed more than once with
// conflicting targets is skipped with a warning; repeated identical rows
// are processed once.
func (d *Driver) RenameAbsolute(entries []manifest.Entry) (*Result, error) {
	return d.run(types.OpRename, func(rec *journal.Record, res *Result) error {
		conflicting := conflictingSources(entries)
		processed := make(map[string]bool)

		for _, e := range entries {
			logger.Info("renaming", "source", e.Source, "target", e.Target, "row", e.Row)

			if processed[e.Source] {
				logger.Warn("source already processed, skipping duplicate row", "source", e.Source, "row", e.Row)
				continue
			}
			processed[e.Source] = true

			if conflicting[e.Source] {
				logger.Warn("source listed with conflicting targets, skipping", "source", e.Source)
				res.Skipped = append(res.Skipped, e.Source)
				continue
			}

			info, err := os.Stat(e.Source)
			if err != nil {
				logger.Warn("source file does not exist", "source", e.Source)
				res.Missing = append(res.Missing, e.Source)
				continue
			}
			if info.IsDir() {
				logger.Warn("source path is not a file", "source", e.Source)
				res.Missing = append(res.Missing, e.Source)
				continue
			}

			if err := d.transfer(rec, res, types.OpRename, e.Source, e.Target, false); err != nil {
				return err
			}
			res.Renamed = append(res.Renamed, Rename{From: e.Source, To: e.Target})
		}
		return nil
	})
}

// conflictingSources returns the sources that appear in more than one row
// with differing targets.
func conflictingSources(entries []manifest.Entry) map[string]bool {
	targets := make(map[string]string)
	conflicting := make(map[string]bool)
	for _, e := range entries {
		if prev, ok := targets[e.Source]; ok && prev != e.Target {
			conflicting[e.Source] = true
			continue
		}
		targets[e.Source] = e.Target
	}
	return conflicting
}
