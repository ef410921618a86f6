// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons, so call sites compare
// against a named value instead of a scattered string literal.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
