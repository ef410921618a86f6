// SPDX-License-Identifier: MPL-2.0

package toolkit

import (
	_ "embed"

	"cuelang.org/go/cue"

	"cueview-cli/pkg/cueutil"
)

//go:embed toolkit_schema.cue
var schemaSource []byte

// baseNames are the definition names reserved by the toolkit. A unit's
// top-level definition with one of these names is a base capability, never
// an entry point.
var baseNames = map[string]struct{}{
	"#Base":   {},
	"#Window": {},
	"#Dialog": {},
	"#Widget": {},
}

// capabilityPaths are the window base capabilities a candidate may descend
// from, in check order.
var capabilityPaths = []string{"#Window", "#Dialog"}

// SchemaValue compiles the embedded toolkit schema into ctx. Each load uses
// a fresh context, so the schema is recompiled per cycle; it is small enough
// that this is not worth caching across contexts (cue values cannot cross
// context boundaries anyway).
func SchemaValue(ctx *cue.Context) (cue.Value, error) {
	return cueutil.CompileSchema(ctx, schemaSource)
}

// SchemaSource returns the raw embedded schema for callers that compile it
// into their own context, such as the unit loader.
func SchemaSource() []byte { return schemaSource }

// IsBaseName reports whether name is one of the toolkit's own base
// definitions.
func IsBaseName(name string) bool {
	_, ok := baseNames[name]
	return ok
}

// WindowCapable reports whether v satisfies one of the window base
// capabilities in schema. The check is non-concrete: a capable but
// incompletely specified candidate passes here and fails later at
// construction, mirroring the type-check/instantiate split.
func WindowCapable(schema cue.Value, v cue.Value) bool {
	for _, path := range capabilityPaths {
		base := schema.LookupPath(cue.ParsePath(path))
		if base.Err() != nil {
			continue
		}
		if base.Unify(v).Validate() == nil {
			return true
		}
	}
	return false
}
