// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

// ErrInvalidColorScheme is returned when a ColorScheme value is not
// recognized.
var ErrInvalidColorScheme = errors.New("invalid color scheme")

type (
	// ColorScheme selects the UI palette.
	ColorScheme string

	// Config is the decoded application configuration.
	Config struct {
		UI     UIConfig     `mapstructure:"ui"`
		Watch  WatchConfig  `mapstructure:"watch"`
		Render RenderConfig `mapstructure:"render"`
	}

	// UIConfig controls the preview host surface.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
		// Inspector shows the widget-tree sidebar by default.
		Inspector bool `mapstructure:"inspector"`
	}

	// WatchConfig adjusts trigger filtering beyond the project manifest.
	WatchConfig struct {
		UseGitignore bool     `mapstructure:"use_gitignore"`
		Ignore       []string `mapstructure:"ignore"`
	}

	// RenderConfig bounds window rendering.
	RenderConfig struct {
		// MaxWidth caps rendered window width in cells; zero means the
		// terminal width.
		MaxWidth int `mapstructure:"max_width"`
	}
)

// DefaultConfig returns the built-in defaults applied before any file or
// flag overrides.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Inspector:   true,
		},
		Watch: WatchConfig{
			UseGitignore: true,
		},
	}
}

// Validate checks constraints that survive schema validation, for configs
// assembled in code rather than loaded from a file.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: auto, dark, light)", ErrInvalidColorScheme, string(c))
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.UI.ColorScheme.Validate(); err != nil {
		return err
	}
	if c.Render.MaxWidth < 0 {
		return fmt.Errorf("render.max_width must not be negative, got %d", c.Render.MaxWidth)
	}
	return nil
}
