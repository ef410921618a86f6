// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"cueview-cli/internal/bootstrap"
	"cueview-cli/internal/config"
	"cueview-cli/internal/host"
	"cueview-cli/internal/issue"
	"cueview-cli/internal/registry"
	"cueview-cli/internal/reload"
	"cueview-cli/internal/watch"
)

// App is the composition root for a preview session: the resolved target,
// the effective configuration, and the engine pieces wired together.
type App struct {
	Target *bootstrap.Target
	Config *config.Config

	Registry    *registry.Registry
	Lifecycle   *reload.Lifecycle
	Coordinator *reload.Coordinator

	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// newApp resolves the target, loads configuration, and assembles the reload
// engine. It does not start the watcher or the UI.
func newApp(cmd *cobra.Command, args []string) (*App, error) {
	arg := "."
	if len(args) == 1 {
		arg = args[0]
	}

	target, err := bootstrap.Resolve(arg)
	if err != nil {
		return nil, err
	}

	cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		// A broken config never blocks a preview session; warn and fall
		// back to the defaults.
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		renderIssue(cmd.ErrOrStderr(), issue.ConfigLoadFailedId)
		cfg = config.DefaultConfig()
	}
	if !verbose {
		verbose = cfg.UI.Verbose
	}

	logger := newSessionLogger(cmd)

	reg := registry.New()
	lc := reload.NewLifecycle(logger)

	return &App{
		Target:    target,
		Config:    cfg,
		Registry:  reg,
		Lifecycle: lc,
		Coordinator: reload.NewCoordinator(reload.Config{
			SourcePath: target.Entry,
			Root:       target.Root,
			Registry:   reg,
			Lifecycle:  lc,
			Logger:     logger,
		}),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
		logger: logger,
	}, nil
}

// newSessionLogger builds the engine logger. The interactive UI owns the
// terminal, so its logger discards output and the status ledger carries the
// diagnostics instead. Headless mode logs to stderr.
func newSessionLogger(cmd *cobra.Command) *log.Logger {
	if !noUI {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{ReportTimestamp: true})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// runPreview is the root RunE: provision, watch, and run the session until
// the user quits.
func runPreview(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd, args)
	if err != nil {
		reportFatal(cmd.ErrOrStderr(), err, resolveIssue(err))
		return &ExitError{Code: 1, Err: err}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := bootstrap.RunProvision(ctx, app.Target.Root, app.Target.Manifest.Provision, app.stdout, app.stderr); err != nil {
		reportFatal(app.stderr, err, issue.ProvisionFailedId)
		return &ExitError{Code: 1, Err: err}
	}
	if err := app.Target.CheckRequires(); err != nil {
		reportFatal(app.stderr, err, issue.ProvisionFailedId)
		return &ExitError{Code: 1, Err: err}
	}

	watchCfg := watch.Config{
		Root:         app.Target.Root,
		Patterns:     app.Target.Manifest.Watch,
		Ignore:       append(append([]string{}, app.Config.Watch.Ignore...), app.Target.Manifest.Ignore...),
		UseGitignore: app.Target.Manifest.UseGitignore || app.Config.Watch.UseGitignore,
		Logger:       app.logger,
	}

	if noUI {
		return runHeadless(ctx, app, watchCfg)
	}
	return runUI(ctx, app, watchCfg)
}

// runUI starts the bubbletea host with the watcher feeding triggers into
// its event loop.
func runUI(ctx context.Context, app *App, watchCfg watch.Config) error {
	h := host.New(host.NewModel(host.ModelConfig{
		Coordinator: app.Coordinator,
		Lifecycle:   app.Lifecycle,
		Registry:    app.Registry,
		ProjectName: app.Target.Manifest.Name,
		EntryName:   entryLabel(app.Target),
		MaxWidth:    app.Config.Render.MaxWidth,
		Inspector:   app.Config.UI.Inspector,
	}))

	watchCfg.OnTrigger = h.Trigger
	w, err := watch.New(watchCfg)
	if err != nil {
		err = fmt.Errorf("failed to start watcher: %w", err)
		reportFatal(app.stderr, err, issue.WatchSetupFailedId)
		return &ExitError{Code: 1, Err: err}
	}

	go func() {
		if werr := w.Run(ctx); werr != nil && !errors.Is(werr, context.Canceled) {
			reportFatal(app.stderr, werr, issue.WatchSetupFailedId)
			h.Quit()
		}
	}()

	return h.Run()
}

// runHeadless runs reload cycles without a terminal UI, logging each stage.
// Triggers arriving while a cycle runs are dropped, matching the
// coordinator's in-flight policy.
func runHeadless(ctx context.Context, app *App, watchCfg watch.Config) error {
	triggers := make(chan []string, 1)
	watchCfg.OnTrigger = func(changed []string) {
		select {
		case triggers <- changed:
		default:
		}
	}

	w, err := watch.New(watchCfg)
	if err != nil {
		err = fmt.Errorf("failed to start watcher: %w", err)
		reportFatal(app.stderr, err, issue.WatchSetupFailedId)
		return &ExitError{Code: 1, Err: err}
	}

	watchErr := make(chan error, 1)
	go func() { watchErr <- w.Run(ctx) }()

	app.logger.Info("previewing", "project", app.Target.Manifest.Name, "entry", entryLabel(app.Target))

	err = host.RunHeadless(ctx, app.Coordinator, triggers, app.logger)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return err
	}

	if werr := <-watchErr; werr != nil && !errors.Is(werr, context.Canceled) {
		return werr
	}
	return nil
}

// reportFatal prints the error line and, when the failure maps to a known
// issue, the rendered guidance card below it. Rendering is best effort; a
// glamour failure never masks the original error.
func reportFatal(w io.Writer, err error, id issue.Id) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	renderIssue(w, id)
}

// renderIssue writes the catalogue entry for id, if one exists.
func renderIssue(w io.Writer, id issue.Id) {
	i := issue.Get(id)
	if i == nil {
		return
	}
	card, err := i.Render("dark")
	if err != nil {
		return
	}
	fmt.Fprintln(w, card)
}

// resolveIssue maps a startup failure to its catalogue entry. Zero means no
// entry applies and only the error line is printed.
func resolveIssue(err error) issue.Id {
	switch {
	case errors.Is(err, bootstrap.ErrManifestInvalid):
		return issue.ManifestInvalidId
	case errors.Is(err, bootstrap.ErrEntryMissing):
		return issue.WindowFileNotFoundId
	}
	return 0
}

// entryLabel is the entry file shown in the header, relative to the root
// when possible.
func entryLabel(t *bootstrap.Target) string {
	rel, err := filepath.Rel(t.Root, t.Entry)
	if err != nil || rel == "" {
		return filepath.Base(t.Entry)
	}
	return rel
}
