// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError rewrites a CUE error with JSON-path prefixes.
//
// Error format: <file-path>: <json-path>: <message>
//
// Examples:
//   - app.cue: children[1].kind: 2 errors in empty disjunction
//   - config.cue: ui.verbose: expected bool, got string
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		// Not a CUE error; keep the chain intact.
		return fmt.Errorf("%s: %w", filePath, err)
	}

	var lines []string
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path inside the message itself.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}

		if pathStr != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath converts a CUE error path (["children", "0", "kind"]) to
// JSON-path notation ("children[0].kind").
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		isIndex := part != ""
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		switch {
		case isIndex && i > 0:
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		case i > 0:
			result.WriteString(".")
			result.WriteString(part)
		default:
			result.WriteString(part)
		}
	}

	return result.String()
}
