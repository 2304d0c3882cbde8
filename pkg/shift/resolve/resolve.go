// Package resolve decides the final destination path for one item when the
// computed destination may already exist. It performs existence checks and
// copy-name probing only; it never mutates the filesystem.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/shift/pkg/shift/types"
)

// Resolve returns the path an item should be written to, given the policy.
// The boolean is false when the item must be skipped entirely.
//
// A non-existent target is never a conflict and is returned unchanged. For
// PolicyOverwrite and PolicyMerge the target is returned unchanged and the
// caller owns replacing or merging the existing content. PolicyMerge is
// honored for directories only; on a file conflict it degrades to copy-name
// probing, mirroring the parse-boundary default.
func Resolve(sourcePath, targetPath string, policy types.Policy, isDir bool) (string, bool) {
	if !exists(targetPath) {
		return targetPath, true
	}

	switch policy {
	case types.PolicySkip:
		return "", false
	case types.PolicyOverwrite:
		return targetPath, true
	case types.PolicyMerge:
		if isDir {
			return targetPath, true
		}
		return CopyName(targetPath, false), true
	default:
		return CopyName(targetPath, isDir), true
	}
}

// CopyName returns a sibling of path named <stem>_copy<N><ext> for files,
// or <name>_copy<N> for directories, where N is the smallest positive
// integer for which the candidate does not currently exist. Probing is a
// check-then-act sequence and assumes a single writer.
func CopyName(path string, isDir bool) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	ext := ""
	stem := base
	if !isDir {
		ext = filepath.Ext(base)
		stem = strings.TrimSuffix(base, ext)
	}

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_copy%d%s", stem, n, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

// exists reports whether path refers to anything at all, without following
// a trailing symlink.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
