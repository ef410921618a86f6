// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
)

// Compile compiles user-authored CUE bytes in ctx with scope visible for
// identifier resolution. Passing the toolkit schema as scope is what lets a
// window file reference #Window without an import statement. A zero scope
// compiles the data standalone.
//
// The returned value carries any evaluation errors from top-level
// expressions; those are surfaced here rather than deferred to lookup time.
func Compile(ctx *cue.Context, data []byte, scope cue.Value, opts ...Option) (cue.Value, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	buildOpts := []cue.BuildOption{cue.Filename(filename)}
	if scope.Exists() {
		buildOpts = append(buildOpts, cue.Scope(scope))
	}

	v := ctx.CompileBytes(data, buildOpts...)
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), filename)
	}

	return v, nil
}

// CompileSchema compiles an embedded schema and fails loudly: a schema error
// is a programming bug, not user input, so the message is prefixed to make
// that clear in reports.
func CompileSchema(ctx *cue.Context, schema []byte) (cue.Value, error) {
	v := ctx.CompileBytes(schema)
	if v.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile embedded schema: %w", v.Err())
	}
	return v, nil
}

// DecodeMap validates data against schemaPath within schema and decodes the
// unified result into a generic map. Used by the config loader, which merges
// the map into viper rather than decoding into a struct directly.
//
// Validation is non-concrete: config fields are optional and unset values
// are acceptable.
func DecodeMap(ctx *cue.Context, schema []byte, data []byte, schemaPath string, opts ...Option) (map[string]any, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	schemaValue, err := CompileSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(); err != nil {
		return nil, FormatError(err, filename)
	}

	var out map[string]any
	if err := userValue.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}

	return out, nil
}

// CheckFileSize verifies that data does not exceed maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
