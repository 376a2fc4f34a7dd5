package source

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ExpandGlobs expands a list of file paths and glob patterns into a deduplicated
// list of matching file paths. Patterns that don't match any files are returned as-is
// (the caller should handle file-not-found errors). Stdin ("-") is kept as is.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		if pattern == Stdin {
			add(pattern)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			// Keep the literal path so the open error names it.
			add(pattern)
			continue
		}

		for _, match := range matches {
			add(match)
		}
	}

	sort.Strings(result)

	return result, nil
}
