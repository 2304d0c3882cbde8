// Package export writes tabular dumps of a directory tree. The structure
// dump mirrors the destination tree after a batch (Level, Type, Name,
// FullPath, pre-order with indented names); the listing dump adds size and
// modification time per entry. Export only reads the filesystem.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// timeFormat is the modification-time format in listing rows.
const timeFormat = "2006-01-02 15:04:05"

// indent is one level of name indentation in structure rows.
const indent = "    "

// Stats summarizes one export run.
type Stats struct {
	Folders    int
	Files      int
	TotalBytes int64
}

// WriteStructure writes the structure dump of root to w as CSV with columns
// Level, Type, Name, FullPath. Folders precede their files, files precede
// subtrees, and names are indented by level.
func WriteStructure(root string, w io.Writer) (*Stats, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("export root: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Level", "Type", "Name", "FullPath"}); err != nil {
		return nil, err
	}

	stats := &Stats{}
	if err := writeStructureDir(cw, absRoot, 0, stats); err != nil {
		return nil, err
	}

	cw.Flush()
	return stats, cw.Error()
}

// writeStructureDir emits one folder row, then its file rows, then recurses
// into subdirectories in name order.
func writeStructureDir(cw *csv.Writer, dir string, level int, stats *Stats) error {
	name := filepath.Base(dir)
	row := []string{
		strconv.Itoa(level),
		"Folder",
		indentName(name, level),
		dir,
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	stats.Folders++

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %q: %w", dir, err)
	}

	var subdirs []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		fileRow := []string{
			strconv.Itoa(level + 1),
			"File",
			indentName(e.Name(), level+1),
			path,
		}
		if err := cw.Write(fileRow); err != nil {
			return err
		}
		stats.Files++
		if info, err := e.Info(); err == nil {
			stats.TotalBytes += info.Size()
		}
	}

	for _, sub := range subdirs {
		if err := writeStructureDir(cw, sub, level+1, stats); err != nil {
			return err
		}
	}
	return nil
}

// WriteListing writes the detailed listing of root to w as CSV with columns
// Name, Type, FullPath, SizeBytes, Modified, Level. When recursive is
// false only the root and its immediate children are listed. Entries whose
// metadata cannot be read are emitted with empty size and time rather than
// aborting the export.
func WriteListing(root string, w io.Writer, recursive bool) (*Stats, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	rootInfo, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("export root: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Type", "FullPath", "SizeBytes", "Modified", "Level"}); err != nil {
		return nil, err
	}

	stats := &Stats{Folders: 1}
	if err := cw.Write(listingRow(filepath.Base(absRoot), absRoot, rootInfo, true, 0)); err != nil {
		return nil, err
	}

	if err := writeListingDir(cw, absRoot, 1, recursive, stats); err != nil {
		return nil, err
	}

	cw.Flush()
	return stats, cw.Error()
}

func writeListingDir(cw *csv.Writer, dir string, level int, recursive bool, stats *Stats) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %q: %w", dir, err)
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, infoErr := e.Info()

		if infoErr != nil {
			kind := "File"
			if e.IsDir() {
				kind = "Folder"
			}
			if err := cw.Write([]string{e.Name(), kind, path, "", "", strconv.Itoa(level)}); err != nil {
				return err
			}
			continue
		}

		if err := cw.Write(listingRow(e.Name(), path, info, e.IsDir(), level)); err != nil {
			return err
		}

		if e.IsDir() {
			stats.Folders++
			if recursive {
				if err := writeListingDir(cw, path, level+1, recursive, stats); err != nil {
					return err
				}
			}
		} else {
			stats.Files++
			stats.TotalBytes += info.Size()
		}
	}
	return nil
}

func listingRow(name, path string, info os.FileInfo, isDir bool, level int) []string {
	kind := "File"
	size := strconv.FormatInt(info.Size(), 10)
	if isDir {
		kind = "Folder"
		size = ""
	}
	return []string{
		name,
		kind,
		path,
		size,
		info.ModTime().Format(timeFormat),
		strconv.Itoa(level),
	}
}

func indentName(name string, level int) string {
	return strings.Repeat(indent, level) + name
}
