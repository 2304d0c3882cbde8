package batch

import (
	"path/filepath"

	"github.com/jamesainslie/shift/pkg/shift/journal"
	"github.com/jamesainslie/shift/pkg/shift/manifest"
	"github.com/jamesainslie/shift/pkg/shift/match"
	"github.com/jamesainslie/shift/pkg/shift/types"
)

// ExtractFolders locates every directory under sourceRoot whose name
// matches a manifest source name and copies or cuts each match directly
// under targetRoot (the source-relative layout is not preserved). All
// matches anywhere in the tree are processed independently; keeping
// destinations unique across entries is the manifest author's
// responsibility. A directory already claimed by an earlier entry is not
// processed again.
func (d *Driver) ExtractFolders(sourceRoot, targetRoot string, entries []manifest.Entry) (*Result, error) {
	op := types.TransferOp(d.opts.Cut)

	return d.run(op, func(rec *journal.Record, res *Result) error {
		if err := ensureRoots(sourceRoot, targetRoot); err != nil {
			return err
		}

		claimed := make(map[string]bool)
		for _, e := range entries {
			logger.Info("searching for folder", "name", e.Source, "target", e.Target, "row", e.Row)

			matches, err := d.matcher.Find(sourceRoot, e.Source, match.KindDir)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				logger.Warn("folder not found in source tree", "name", e.Source)
				res.Missing = append(res.Missing, e.Source)
				continue
			}

			for _, m := range matches {
				if claimed[m.Path] {
					continue
				}
				claimed[m.Path] = true

				dst := filepath.Join(targetRoot, e.Target)
				if err := d.transfer(rec, res, op, m.Path, dst, true); err != nil {
					return err
				}
			}

			if e.Target != e.Source {
				res.Renamed = append(res.Renamed, Rename{From: e.Source, To: e.Target})
			}
		}
		return nil
	})
}
