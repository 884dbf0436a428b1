package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverFiles walks rootDir applying include/exclude globs from cfg.
// Returns a sorted slice of absolute file paths for deterministic output.
//
// Ignore patterns are validated but not applied here: ignored files are
// part of a run's total, so the caller filters them with ShouldIgnore.
func DiscoverFiles(rootDir string, cfg ScanConfig) ([]string, error) {
	if err := validatePatterns("exclude", cfg.Exclude); err != nil {
		return nil, err
	}
	if err := validatePatterns("include", cfg.Include); err != nil {
		return nil, err
	}
	if err := validatePatterns("ignore", cfg.Ignore); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking on errors.
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range cfg.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(cfg.Include) > 0 {
			matched := false
			for _, pattern := range cfg.Include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ShouldIgnore reports whether path matches any ignore pattern. Patterns are
// tried against the path relative to rootDir and against the path as given.
func ShouldIgnore(patterns []string, rootDir, path string) bool {
	if len(patterns) == 0 {
		return false
	}

	candidates := []string{filepath.ToSlash(path)}
	if absRoot, err := filepath.Abs(rootDir); err == nil {
		if absPath, err := filepath.Abs(path); err == nil {
			if rel, err := filepath.Rel(absRoot, absPath); err == nil {
				candidates = append(candidates, filepath.ToSlash(rel))
			}
		}
	}

	for _, pattern := range patterns {
		for _, candidate := range candidates {
			if matched, _ := doublestar.PathMatch(pattern, candidate); matched {
				return true
			}
		}
	}
	return false
}

func validatePatterns(kind string, patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid %s pattern: %s", kind, pattern)
		}
	}
	return nil
}
