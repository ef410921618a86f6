// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects the config directory lookup, for tests.
// os.UserHomeDir() does not reliably respect the HOME environment variable
// on all platforms (e.g., macOS in CI), so tests point this at a temp dir
// instead of faking HOME.
var configDirOverride string

// SetConfigDirOverride sets a custom config directory path.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}
