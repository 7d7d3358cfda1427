// Package ingestion locates workspace files on disk and reads them into memory.
package ingestion

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
)

// DefaultPattern matches Edge workspace containers.
const DefaultPattern = "*.edge"

// DiscoverOptions controls directory expansion.
type DiscoverOptions struct {
	Pattern   string // Base-name glob, DefaultPattern when empty
	Recursive bool   // Descend into subdirectories
}

// Discover expands root into the list of workspace files to process. A file
// is returned as-is whatever its name; a directory is searched for base
// names matching the pattern. Results are sorted.
func Discover(root string, opts DiscoverOptions) ([]string, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Cause: err}
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: root, Cause: err}
		}
		return nil, &ReadError{Path: root, Cause: err}
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	if !opts.Recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, &ReadError{Path: root, Cause: err}
		}
		for _, e := range entries {
			if e.Type().IsRegular() && matcher.Match(e.Name()) {
				paths = append(paths, filepath.Join(root, e.Name()))
			}
		}
		slices.Sort(paths)
		return paths, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped rather than failing the run.
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return err
		}
		if d.Type().IsRegular() && matcher.Match(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, &ReadError{Path: root, Cause: err}
	}
	slices.Sort(paths)
	return paths, nil
}
