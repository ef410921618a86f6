// SPDX-License-Identifier: MPL-2.0

// Package discovery finds the entry-point window definition in a loaded
// unit.
//
// A candidate is any top-level definition that satisfies a window base
// capability and is not itself one of the toolkit's base definitions. The
// first capable candidate in declaration order wins; discovery never checks
// concreteness, so an underspecified candidate is still selected here and
// fails at construction instead.
package discovery

import (
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"cueview-cli/internal/toolkit"
	"cueview-cli/pkg/windowfile"
)

// ErrNoWindow reports that a unit contains no window-capable definition.
var ErrNoWindow = errors.New("no window definition found")

// Candidate is the selected entry point: the definition name and its value
// within the unit's context.
type Candidate struct {
	Name  string
	Value cue.Value
}

// Discover scans unit for its entry-point window. Definitions are visited
// in declaration order, matching how a reader scans the file top to bottom.
func Discover(unit *windowfile.Unit) (Candidate, error) {
	if !unit.Schema.Exists() {
		return Candidate{}, fmt.Errorf("discover %s: unit was loaded without the toolkit schema", unit.Name)
	}

	iter, err := unit.Value.Fields(cue.Definitions(true))
	if err != nil {
		return Candidate{}, fmt.Errorf("discover %s: %w", unit.Name, err)
	}

	for iter.Next() {
		sel := iter.Selector()
		name := sel.String()
		if !strings.HasPrefix(name, "#") {
			continue
		}
		if toolkit.IsBaseName(name) {
			continue
		}

		if toolkit.WindowCapable(unit.Schema, iter.Value()) {
			return Candidate{Name: name, Value: iter.Value()}, nil
		}
	}

	return Candidate{}, fmt.Errorf("discover %s: %w", unit.Name, ErrNoWindow)
}
