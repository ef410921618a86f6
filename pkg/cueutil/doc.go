// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE compilation utilities.
//
// The package consolidates the compilation pattern used by the window unit
// loader and the config loader:
//
//  1. Compile the embedded schema into a context
//  2. Compile user data with the schema in scope
//  3. Validate and decode
//
// Errors are rewritten with JSON-path prefixes so users can locate the
// offending field in their source file.
package cueutil
