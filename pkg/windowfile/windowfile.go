// SPDX-License-Identifier: MPL-2.0

// Package windowfile loads a user-authored CUE window file into an isolated
// evaluation context.
//
// Every call to Load creates a fresh *cue.Context, which is what gives the
// reload engine its cache-invalidation semantics: values from a previous
// load live in a dead context and cannot leak into the new evaluation. The
// caller's registry decides when old units are evicted; this package never
// caches.
package windowfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"cueview-cli/pkg/cueutil"
	"cueview-cli/pkg/fspath"
)

// Unit is one loaded window file: the compiled root value plus identity
// metadata. The unit name is the file stem, so sibling files with distinct
// stems are distinct units.
type Unit struct {
	// Name is the unit name derived from the source file stem.
	Name string

	// SourcePath is the absolute path the unit was loaded from.
	SourcePath string

	// Value is the compiled root of the file, evaluated in a context that
	// is private to this load.
	Value cue.Value

	// Schema is the toolkit schema compiled into the same context as Value.
	// Capability checks must unify against this copy; values from another
	// context cannot be mixed in.
	Schema cue.Value

	// LoadedAt records when the load completed.
	LoadedAt time.Time
}

// Load reads and compiles the window file at path. schema, when non-empty,
// is compiled into the same fresh context and placed in scope, so the file
// can reference definitions like #Window without an import.
//
// Syntax and evaluation errors are returned with the file path and a
// JSON-path location; the caller treats them as recoverable.
func Load(path string, schema []byte, opts ...cueutil.Option) (*Unit, error) {
	abs, err := fspath.EnsureAbs(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(abs), err)
	}

	ctx := cuecontext.New()

	var scope cue.Value
	if len(schema) > 0 {
		scope, err = cueutil.CompileSchema(ctx, schema)
		if err != nil {
			return nil, err
		}
	}

	loadOpts := append([]cueutil.Option{cueutil.WithFilename(abs)}, opts...)
	v, err := cueutil.Compile(ctx, data, scope, loadOpts...)
	if err != nil {
		return nil, err
	}

	return &Unit{
		Name:       fspath.Stem(abs),
		SourcePath: abs,
		Value:      v,
		Schema:     scope,
		LoadedAt:   time.Now(),
	}, nil
}
