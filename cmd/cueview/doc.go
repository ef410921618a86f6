// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI entry point for cueview.
//
// cueview is a single-purpose tool, so the Cobra hierarchy is flat: the
// root command resolves the preview target, loads configuration, and hands
// off to the host package for the interactive session (or the headless
// loop under --no-ui).
package cmd
