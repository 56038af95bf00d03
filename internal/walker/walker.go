// Package walker lists the Python source files of an analysis root.
package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Extension is the suffix of files the walker returns
const Extension = ".py"

// SkipFunc is told about a path below the root that could not be read
type SkipFunc func(rel string, err error)

// Walk returns the .py files under root, relative to root with forward
// slashes, in lexical traversal order. Any path whose root-relative form
// contains one of the exclusion substrings is skipped without being read.
// A file or directory below root that cannot be read is reported to
// onSkip, which may be nil, and left out; only an unreadable root fails.
func Walk(fsys afero.Fs, root string, excludes []string, onSkip SkipFunc) ([]string, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root is not a directory: %s", root)
	}

	var files []string
	err = afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if path == root {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("rel path %s: %w", path, relErr)
		}
		rel = filepath.ToSlash(rel)
		if err != nil {
			if onSkip != nil {
				onSkip(rel, err)
			}
			if info == nil || info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if Excluded(rel, excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, Extension) || Excluded(rel, excludes) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// Excluded reports whether path contains any exclusion substring
func Excluded(path string, excludes []string) bool {
	for _, pattern := range excludes {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// ModuleName converts a relative file path into a dotted module path
func ModuleName(relPath string) string {
	module := strings.TrimSuffix(filepath.ToSlash(relPath), Extension)
	return strings.ReplaceAll(module, "/", ".")
}
