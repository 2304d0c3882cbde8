package batch

import (
	"path/filepath"

	"github.com/jamesainslie/shift/pkg/shift/journal"
	"github.com/jamesainslie/shift/pkg/shift/manifest"
	"github.com/jamesainslie/shift/pkg/shift/match"
	"github.com/jamesainslie/shift/pkg/shift/types"
)

// SearchRelocate locates each manifest source name anywhere under
// sourceRoot by case-insensitive file-name match and copies or cuts the
// first match to targetRoot under the manifest target name. Names not found
// in the tree are warnings, never errors.
func (d *Driver) SearchRelocate(sourceRoot, targetRoot string, entries []manifest.Entry) (*Result, error) {
	op := types.TransferOp(d.opts.Cut)

	return d.run(op, func(rec *journal.Record, res *Result) error {
		if err := ensureRoots(sourceRoot, targetRoot); err != nil {
			return err
		}

		for _, e := range entries {
			logger.Info("searching for file", "name", e.Source, "target", e.Target, "row", e.Row)

			src, err := d.matcher.FindFirst(sourceRoot, e.Source, match.KindFile)
			if err != nil {
				return err
			}
			if src == "" {
				logger.Warn("file not found in source tree", "name", e.Source)
				res.Missing = append(res.Missing, e.Source)
				continue
			}

			dst := filepath.Join(targetRoot, e.Target)
			if err := d.transfer(rec, res, op, src, dst, false); err != nil {
				return err
			}
			if e.Target != e.Source {
				res.Renamed = append(res.Renamed, Rename{From: e.Source, To: e.Target})
			}
		}
		return nil
	})
}
