// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the maximum file size accepted by Compile (5MB).
// The limit guards against accidentally pointing the previewer at a huge
// generated file and exhausting memory during evaluation.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// compileOptions holds configuration for CUE compilation.
	compileOptions struct {
		maxFileSize int64
		filename    string
	}

	// Option configures compilation behavior.
	Option func(*compileOptions)
)

func defaultOptions() compileOptions {
	return compileOptions{
		maxFileSize: DefaultMaxFileSize,
		filename:    "",
	}
}

// WithMaxFileSize sets the maximum allowed input size.
// Default is DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *compileOptions) {
		o.maxFileSize = size
	}
}

// WithFilename sets the filename reported in error messages.
func WithFilename(name string) Option {
	return func(o *compileOptions) {
		o.filename = name
	}
}
