// SPDX-License-Identifier: MPL-2.0

// Package fspath provides small path helpers shared by the watcher, the
// module registry, and the bootstrap layer: stem extraction for deriving
// unit names, and ancestry checks for registry eviction.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Stem returns the file name of path without its extension. It is used to
// derive the logical unit name for a loaded source file (e.g.,
// "/proj/app.cue" → "app").
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EnsureAbs resolves path to an absolute, cleaned form.
func EnsureAbs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// IsUnder reports whether path lies inside root (or equals it). Both
// arguments are cleaned before comparison; neither is required to exist.
// The check is purely lexical; symlinks are not resolved.
func IsUnder(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
