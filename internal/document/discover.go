package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches the session documents inside an input directory.
var DefaultInclude = []string{"*.docx"}

// LockMarker appears in the names of editor lock and backup files.
const LockMarker = "~"

// Discover lists the documents in dir matching any include pattern.
// Patterns use doublestar syntax relative to dir. Files whose name contains
// LockMarker are skipped, as is any path equal to or below an entry in skip.
// The result is sorted and free of duplicates.
func Discover(dir string, include []string, skip ...string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}
	if len(include) == 0 {
		include = DefaultInclude
	}

	skipAbs := make([]string, 0, len(skip))
	for _, s := range skip {
		if s == "" {
			continue
		}
		if abs, err := filepath.Abs(s); err == nil {
			skipAbs = append(skipAbs, abs)
		}
	}

	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("include pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q in %s: %w", pattern, dir, err)
		}

		for _, m := range matches {
			if strings.Contains(filepath.Base(filepath.FromSlash(m)), LockMarker) {
				continue
			}
			entry, err := fs.Stat(fsys, m)
			if err != nil || entry.IsDir() {
				continue
			}

			path := filepath.Join(dir, filepath.FromSlash(m))
			if skipped(path, skipAbs) || seen[path] {
				continue
			}
			seen[path] = true
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func skipped(path string, skip []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, s := range skip {
		if abs == s || strings.HasPrefix(abs, s+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
