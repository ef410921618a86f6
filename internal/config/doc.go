// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as
// the file format.
//
// Configuration is loaded from ~/.config/cueview/config.cue (or XDG
// equivalent on Linux, ~/Library/Application Support/cueview/config.cue on
// macOS, %APPDATA%\cueview\config.cue on Windows). Values are validated
// against a CUE schema (config_schema.cue) before being merged over the
// built-in defaults, so a config file only needs the fields it changes.
package config
