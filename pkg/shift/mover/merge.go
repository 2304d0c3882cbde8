package mover

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/shift/pkg/shift/fsutil"
	"github.com/jamesainslie/shift/pkg/shift/resolve"
)

// merge walks srcDir and unions its content into dstDir: new subtrees and
// files are copied whole, existing subdirectories are recursed into, and
// existing files get a copy-suffixed sibling.
func merge(srcDir, dstDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("reading %q: %w", srcDir, err)
	}

	for _, e := range entries {
		srcPath := filepath.Join(srcDir, e.Name())
		dstPath := filepath.Join(dstDir, e.Name())

		if e.IsDir() {
			if _, err := os.Stat(dstPath); err != nil {
				if err := fsutil.CopyTree(srcPath, dstPath); err != nil {
					return err
				}
			} else if err := merge(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		if _, err := os.Stat(dstPath); err != nil {
			if err := fsutil.CopyFile(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		sibling := resolve.CopyName(dstPath, false)
		if err := fsutil.CopyFile(srcPath, sibling); err != nil {
			return err
		}
		logger.Debug("merge conflict, created copy", "target", dstPath, "copy", sibling)
	}

	return nil
}
