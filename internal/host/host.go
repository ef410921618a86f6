// SPDX-License-Identifier: MPL-2.0

// Package host runs the preview surface. The bubbletea program is the UI
// thread: every mutation of engine state happens inside Update, and the
// watcher goroutine participates only by sending TriggerMsg into the
// program. The deferred show is modelled as a message round-trip, so the
// frame after a reload renders before the new window becomes visible.
package host

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"cueview-cli/internal/reload"
)

// Host owns the running program and is the watcher's handle into the UI.
type Host struct {
	program *tea.Program
}

// New assembles the program with the alternate screen enabled.
func New(m Model) *Host {
	return &Host{program: tea.NewProgram(m, tea.WithAltScreen())}
}

// Trigger posts a reload trigger into the UI loop. Safe to call from any
// goroutine; this is the watcher's OnTrigger.
func (h *Host) Trigger(changed []string) {
	h.program.Send(TriggerMsg{Changed: changed})
}

// Quit asks the program to exit, e.g. when the watcher dies fatally.
func (h *Host) Quit() {
	h.program.Send(fatalMsg{})
}

// Run blocks until the user quits or a fatal error stops the program.
func (h *Host) Run() error {
	_, err := h.program.Run()
	return err
}

// RunHeadless drives the engine without a terminal UI: each trigger runs a
// full cycle, completing the show immediately since there is no event loop
// to defer behind. Outcomes go to the logger. Used by --no-ui, which exists
// for scripting and for terminals where the altscreen misbehaves.
func RunHeadless(ctx context.Context, coordinator *reload.Coordinator, triggers <-chan []string, logger *log.Logger) error {
	runCycle := func(changed []string) {
		if len(changed) > 0 {
			logger.Info("change detected", "files", changed)
		}
		out := coordinator.ReloadNow()
		for _, ev := range out.Events {
			logStage(logger, ev)
		}
		if out.Failed() {
			return
		}
		if out.AwaitShow {
			logStage(logger, coordinator.CompleteShow())
		}
	}

	// Initial cycle before any file changes.
	runCycle(nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case changed, ok := <-triggers:
			if !ok {
				return nil
			}
			runCycle(changed)
		}
	}
}

func logStage(logger *log.Logger, ev reload.StageResult) {
	switch {
	case ev.Err != nil && ev.Detail != "":
		logger.Warn(fmt.Sprintf("%s: %s", ev.Stage, ev.Detail), "err", ev.Err)
	case ev.Err != nil:
		logger.Error(ev.Stage.String(), "err", ev.Err)
	default:
		logger.Info(fmt.Sprintf("%s: %s", ev.Stage, ev.Detail))
	}
}
