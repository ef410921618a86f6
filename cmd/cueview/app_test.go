// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"cueview-cli/internal/bootstrap"
	"cueview-cli/internal/issue"
)

// newAppCommand builds a minimal command carrying the context and writers
// newApp needs. Tests here are not parallel: newApp reads the package-level
// flag vars.
func newAppCommand(t *testing.T) *cobra.Command {
	t.Helper()

	origCfgFile, origVerbose, origNoUI := cfgFile, verbose, noUI
	t.Cleanup(func() { cfgFile, verbose, noUI = origCfgFile, origVerbose, origNoUI })

	c := &cobra.Command{}
	c.SetContext(context.Background())
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	return c
}

func TestNewAppResolvesDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.cue"), []byte(`#Main: #Window & {}`), 0o644); err != nil {
		t.Fatalf("writing window file: %v", err)
	}

	c := newAppCommand(t)
	noUI = true

	app, err := newApp(c, []string{root})
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}

	if app.Target.Entry != filepath.Join(root, "main.cue") {
		t.Errorf("Target.Entry = %q, want the default main.cue", app.Target.Entry)
	}
	if app.Coordinator == nil || app.Lifecycle == nil || app.Registry == nil {
		t.Error("newApp should wire the full engine")
	}
	if app.Config == nil {
		t.Error("newApp should always produce a config")
	}
}

func TestNewAppMissingEntry(t *testing.T) {
	c := newAppCommand(t)

	if _, err := newApp(c, []string{t.TempDir()}); err == nil {
		t.Error("newApp() should fail when the entry file does not exist")
	}
}

func TestResolveIssue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{
			name: "malformed manifest",
			err:  fmt.Errorf("resolve: %w", bootstrap.ErrManifestInvalid),
			want: issue.ManifestInvalidId,
		},
		{
			name: "missing entry",
			err:  fmt.Errorf("resolve: %w", bootstrap.ErrEntryMissing),
			want: issue.WindowFileNotFoundId,
		},
		{
			name: "unclassified failure",
			err:  errors.New("something else"),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveIssue(tt.err); got != tt.want {
				t.Errorf("resolveIssue(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestReportFatalRendersGuidance(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reportFatal(&buf, errors.New("inotify watch limit reached"), issue.WatchSetupFailedId)

	out := buf.String()
	if !strings.Contains(out, "inotify watch limit reached") {
		t.Errorf("output should carry the error text, got %q", out)
	}
	if !strings.Contains(out, "watcher") {
		t.Errorf("output should include the watcher guidance card, got %q", out)
	}
}

func TestReportFatalWithoutCatalogueEntry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reportFatal(&buf, errors.New("plain failure"), 0)

	out := buf.String()
	if !strings.Contains(out, "plain failure") {
		t.Errorf("output should carry the error text, got %q", out)
	}
	if strings.Contains(out, "watcher") || strings.Contains(out, "See also") {
		t.Errorf("no guidance card should render for an unknown id, got %q", out)
	}
}

func TestEntryLabel(t *testing.T) {
	t.Parallel()

	target := &bootstrap.Target{
		Root:  filepath.Join("/proj"),
		Entry: filepath.Join("/proj", "ui", "main.cue"),
	}
	if got, want := entryLabel(target), filepath.Join("ui", "main.cue"); got != want {
		t.Errorf("entryLabel() = %q, want %q", got, want)
	}
}
