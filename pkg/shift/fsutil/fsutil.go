// Package fsutil provides the low-level filesystem primitives shared by the
// mover and the backup store: metadata-preserving file copy, recursive tree
// copy, and move with a cross-volume fallback.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile duplicates src to dst, preserving permission bits and the
// modification time. dst is truncated if it already exists.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("copy %q: is a directory", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %q to %q: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %q: %w", dst, err)
	}

	// Permission bits can be masked by umask on create; set them explicitly
	// along with the modification time.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %q: %w", dst, err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("chtimes %q: %w", dst, err)
	}
	return nil
}

// CopyTree recursively duplicates the directory at src to dst, which must
// not already exist. Symlinks are recreated, not followed.
func CopyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("copy tree %q: not a directory", src)
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("create %q: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read %q: %w", src, err)
	}

	for _, e := range entries {
		srcPath := filepath.Join(src, e.Name())
		dstPath := filepath.Join(dst, e.Name())

		switch {
		case e.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return fmt.Errorf("readlink %q: %w", srcPath, err)
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return fmt.Errorf("symlink %q: %w", dstPath, err)
			}
		case e.IsDir():
			if err := CopyTree(srcPath, dstPath); err != nil {
				return err
			}
		default:
			if err := CopyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("chtimes %q: %w", dst, err)
	}
	return nil
}

// Copy duplicates src to dst, dispatching on whether src is a directory.
func Copy(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}
	if info.IsDir() {
		return CopyTree(src, dst)
	}
	return CopyFile(src, dst)
}

// Move relocates src to dst. It renames when source and destination share a
// volume and falls back to copy-then-delete otherwise.
func Move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := Copy(src, dst); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("removing %q after copy: %w", src, err)
	}
	return nil
}

// Remove deletes a file or recursively deletes a directory.
func Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %q: %w", path, err)
	}
	return nil
}
