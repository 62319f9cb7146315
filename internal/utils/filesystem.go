package utils

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPathspecs expands glob arguments against the filesystem. Arguments
// without glob characters are returned unchanged, existing or not, so the
// caller can report missing files by name. A glob matching nothing is an
// error.
func ExpandPathspecs(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !isGlob(pattern) {
			add(pattern)
			continue
		}
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

// MatchAny reports whether the slash-separated path matches any of the
// patterns. A pattern without glob characters matches the path itself or
// anything below it as a directory. No patterns matches everything.
func MatchAny(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(filepath.Clean(pattern))
		if !isGlob(pattern) {
			if path == pattern || (len(path) > len(pattern) && path[:len(pattern)] == pattern && path[len(pattern)] == '/') {
				return true
			}
			continue
		}
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// GetProjectName returns the name of the directory holding the repository.
func GetProjectName(root string) string {
	return filepath.Base(root)
}

func isGlob(p string) bool {
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
