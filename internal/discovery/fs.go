// Package discovery resolves CLI inputs into the ordered list of workflow
// files handed to the validation engine. Explicit paths keep their input
// order; glob and directory expansions are sorted so the resulting batch
// order, and therefore the serialized output, is reproducible.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bgricker/actioncheck/internal/logger"
)

var log = logger.New("discovery")

// ErrNoMatches indicates that no workflow files were found for any input.
var ErrNoMatches = errors.New("no workflow files matched")

// Resolve expands inputs into workflow file paths relative to root.
//
// Each input may be a file path, a directory (searched recursively for
// .yml/.yaml files), or a doublestar glob pattern. With no inputs the
// default GitHub Actions workflow location is searched. A path that names a
// missing file is passed through untouched: the validator records it as that
// file's read error instead of aborting the batch.
func Resolve(root string, inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return defaultWorkflows(root)
	}

	seen := make(map[string]struct{})
	var resolved []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		resolved = append(resolved, path)
	}

	for _, input := range inputs {
		switch {
		case isPattern(input):
			matches, err := expandPattern(root, input)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		default:
			full := input
			if !filepath.IsAbs(full) {
				full = filepath.Join(root, input)
			}
			info, err := os.Stat(full)
			if err == nil && info.IsDir() {
				matches, walkErr := walkYAML(full, root)
				if walkErr != nil {
					return nil, walkErr
				}
				for _, m := range matches {
					add(m)
				}
				continue
			}
			// Missing or unreadable files surface as FileReadError later.
			add(mustRelOrClean(root, full))
		}
	}

	if len(resolved) == 0 {
		return nil, ErrNoMatches
	}
	log.Printf("resolved %d inputs to %d workflow files", len(inputs), len(resolved))
	return resolved, nil
}

func defaultWorkflows(root string) ([]string, error) {
	dir := filepath.Join(root, ".github", "workflows")
	matches := make(map[string]struct{})
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		found, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range found {
			matches[mustRelOrClean(root, m)] = struct{}{}
		}
	}
	if len(matches) == 0 {
		return nil, ErrNoMatches
	}
	paths := make([]string, 0, len(matches))
	for p := range matches {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func expandPattern(root, pattern string) ([]string, error) {
	full := pattern
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, pattern)
	}
	found, err := doublestar.FilepathGlob(full)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var paths []string
	for _, m := range found {
		info, statErr := os.Stat(m)
		if statErr != nil {
			continue
		}
		if info.IsDir() {
			nested, walkErr := walkYAML(m, root)
			if walkErr != nil {
				return nil, walkErr
			}
			paths = append(paths, nested...)
			continue
		}
		if isYAMLFile(m) {
			paths = append(paths, mustRelOrClean(root, m))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func walkYAML(dir, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isYAMLFile(path) {
			paths = append(paths, mustRelOrClean(root, path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func isPattern(input string) bool {
	return strings.ContainsAny(input, "*?[{")
}

func isYAMLFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yml" || ext == ".yaml"
}

func mustRelOrClean(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Clean(path)
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Clean(path)
	}
	return rel
}
