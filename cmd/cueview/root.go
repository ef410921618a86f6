// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cueview-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// noUI runs the reload loop without the terminal UI
	noUI bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "cueview [path]",
		Short: "Live preview for CUE window files",
		Long: TitleStyle.Render("cueview") + SubtitleStyle.Render(" - live preview for CUE window files") + `

cueview renders the window declared in a .cue file and reloads it every
time a file under the project root changes. Saving a broken file keeps
the last good frame off the screen and reports the failure in the status
ledger; saving a fix brings the window straight back.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Write a window file, e.g. main.cue containing '#Main: #Window & {...}'
  2. Run: cueview .
  3. Edit and save; the preview reloads on its own

` + SubtitleStyle.Render("Examples:") + `
  cueview .                 Preview ./main.cue (or the manifest entry)
  cueview ui/settings.cue   Preview a specific window file
  cueview --no-ui demo/     Log reload cycles instead of drawing`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cueview/config.cue)")
	rootCmd.Flags().BoolVar(&noUI, "no-ui", false, "run headless: log reload cycles instead of drawing the preview")
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
