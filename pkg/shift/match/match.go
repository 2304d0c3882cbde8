// Package match locates items inside a source tree by case-insensitive
// base-name comparison. Traversal uses fastwalk; because its callbacks run
// concurrently, matches are collected first and then ordered by depth and
// lexicographic path, so "first match" is stable across runs on the same
// tree.
package match

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// Kind selects what a search matches against.
type Kind int

const (
	// KindFile matches regular files only.
	KindFile Kind = iota
	// KindDir matches directories only.
	KindDir
)

// Matcher walks a source tree and finds items matching manifest names.
type Matcher struct {
	// Exclude holds glob patterns (doublestar syntax) matched against
	// paths relative to the walk root. Matching files are ignored and
	// matching directories are not descended into.
	Exclude []string
}

// Match is one located item.
type Match struct {
	Path  string
	Depth int
}

// ErrRootNotDir indicates the search root is missing or not a directory.
var ErrRootNotDir = errors.New("search root is not a directory")

// Find returns every path under root whose base name equals name
// case-insensitively, ordered by (depth, path). Walk errors on individual
// entries are skipped; only a bad root fails the search.
func (m *Matcher) Find(root, name string, kind Kind) ([]Match, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, ErrRootNotDir
	}

	want := strings.ToLower(name)

	var mu sync.Mutex
	var matches []Match

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == absRoot {
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			// Exclusion and depth both need the relative path.
			return nil
		}
		if m.excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if kind == KindDir && !d.IsDir() {
			return nil
		}
		if kind == KindFile && d.IsDir() {
			return nil
		}

		if strings.ToLower(d.Name()) == want {
			depth := strings.Count(rel, string(filepath.Separator))
			mu.Lock()
			matches = append(matches, Match{Path: path, Depth: depth})
			mu.Unlock()
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Depth != matches[j].Depth {
			return matches[i].Depth < matches[j].Depth
		}
		return matches[i].Path < matches[j].Path
	})

	return matches, nil
}

// FindFirst returns the first match in traversal order, or "" when the name
// does not occur in the tree. A missing name is a warning condition for
// callers, not an error.
func (m *Matcher) FindFirst(root, name string, kind Kind) (string, error) {
	matches, err := m.Find(root, name, kind)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0].Path, nil
}

// excluded reports whether the relative path matches any exclude pattern.
// Invalid patterns never match.
func (m *Matcher) excluded(rel string) bool {
	if len(m.Exclude) == 0 {
		return false
	}
	slashed := filepath.ToSlash(rel)
	for _, pattern := range m.Exclude {
		ok, err := doublestar.Match(pattern, slashed)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
