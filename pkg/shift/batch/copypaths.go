package batch

import (
	"os"
	"path/filepath"

	"github.com/jamesainslie/shift/pkg/shift/journal"
	"github.com/jamesainslie/shift/pkg/shift/manifest"
	"github.com/jamesainslie/shift/pkg/shift/types"
)

// CopyPaths copies or cuts files whose manifest entries carry an absolute
// source file path and a destination folder. The file keeps its base name
// inside the destination folder. Missing or non-file sources are warnings.
func (d *Driver) CopyPaths(entries []manifest.Entry) (*Result, error) {
	op := types.TransferOp(d.opts.Cut)

	return d.run(op, func(rec *journal.Record, res *Result) error {
		for _, e := range entries {
			logger.Info("processing path", "source", e.Source, "folder", e.Target, "row", e.Row)

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

			if err := os.MkdirAll(e.Target, 0o755); err != nil {
				return err
			}

			dst := filepath.Join(e.Target, filepath.Base(e.Source))
			if err := d.transfer(rec, res, op, e.Source, dst, false); err != nil {
				return err
			}
		}
		return nil
	})
}
