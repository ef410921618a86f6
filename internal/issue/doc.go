// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines the catalogue of known failure modes for a preview session,
// each with Markdown-formatted remediation guidance, plus the
// ActionableError type used to attach suggestions to errors surfaced on
// the CLI.
package issue
