// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"cueview-cli/internal/registry"
	"cueview-cli/internal/reload"
)

type fixture struct {
	model      Model
	lifecycle  *reload.Lifecycle
	sourcePath string
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newFixture(t *testing.T, src string) *fixture {
	t.Helper()

	root := t.TempDir()
	sourcePath := filepath.Join(root, "main.cue")
	if err := os.WriteFile(sourcePath, []byte(src), 0o644); err != nil {
		t.Fatalf("writing window file: %v", err)
	}

	reg := registry.New()
	lc := reload.NewLifecycle(quietLogger())
	coordinator := reload.NewCoordinator(reload.Config{
		SourcePath: sourcePath,
		Root:       root,
		Registry:   reg,
		Lifecycle:  lc,
		Logger:     quietLogger(),
	})

	return &fixture{
		model: NewModel(ModelConfig{
			Coordinator: coordinator,
			Lifecycle:   lc,
			Registry:    reg,
			ProjectName: "demo",
			EntryName:   "main.cue",
			Inspector:   true,
		}),
		lifecycle:  lc,
		sourcePath: sourcePath,
	}
}

// step feeds msg into the model and returns the updated model and the
// message produced by the resulting command, if any.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()

	updated, cmd := m.Update(msg)
	next := updated.(Model)
	if cmd == nil {
		return next, nil
	}
	return next, cmd()
}

// runCycle drives one full reload through the model: trigger, done, show.
func runCycle(t *testing.T, m Model, trigger TriggerMsg) Model {
	t.Helper()

	m, msg := step(t, m, trigger)
	done, ok := msg.(reloadDoneMsg)
	if !ok {
		t.Fatalf("trigger produced %T, want reloadDoneMsg", msg)
	}

	m, msg = step(t, m, done)
	if done.outcome.AwaitShow {
		show, ok := msg.(showMsg)
		if !ok {
			t.Fatalf("reloadDoneMsg produced %T, want showMsg", msg)
		}
		m, _ = step(t, m, show)
	}
	return m
}

func TestShowIsDeferredOneTurn(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `#Main: #Window & {title: "Hello"}`)

	m, msg := step(t, f.model, TriggerMsg{})
	done := msg.(reloadDoneMsg)
	if !done.outcome.AwaitShow {
		t.Fatalf("cycle should await its show, err = %v", done.outcome.Err)
	}

	// After the done message the window exists but must not be visible
	// yet; visibility arrives with the showMsg on the next turn.
	m, msg = step(t, m, done)
	if w := f.lifecycle.Current(); w == nil || w.Visible() {
		t.Fatal("window should be adopted but hidden before the show turn")
	}

	step(t, m, msg.(showMsg))
	if w := f.lifecycle.Current(); w == nil || !w.Visible() {
		t.Error("window should be visible after the show turn")
	}
}

func TestViewRendersWindowAndInspector(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `
#Main: #Window & {
	title: "Greeter"
	children: [{kind: "button", id: "ok", text: "OK"}]
}`)

	m := runCycle(t, f.model, TriggerMsg{})
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	for _, want := range []string{"Greeter", "OK", "inspector", "button#ok", "#Main"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestInspectorToggle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `#Main: #Window & {}`)
	m := runCycle(t, f.model, TriggerMsg{})

	// The sidebar is the only place the entry definition's name appears.
	if !strings.Contains(m.View(), "#Main") {
		t.Fatal("inspector should be visible initially")
	}

	tab := tea.KeyMsg{Type: tea.KeyTab}
	m, _ = step(t, m, tab)
	if strings.Contains(m.View(), "#Main") {
		t.Error("inspector should be hidden after toggle")
	}

	m, _ = step(t, m, tab)
	if !strings.Contains(m.View(), "#Main") {
		t.Error("inspector should be visible after second toggle")
	}
}

func TestQuitKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `#Main: #Window & {}`)

	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}

func TestManualReloadKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `#Main: #Window & {title: "v1"}`)
	m := runCycle(t, f.model, TriggerMsg{})

	if err := os.WriteFile(f.sourcePath, []byte(`#Main: #Window & {title: "v2"}`), 0o644); err != nil {
		t.Fatalf("rewriting window file: %v", err)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(Model)
	done := cmd().(reloadDoneMsg)
	m, msg := step(t, m, done)
	m, _ = step(t, m, msg.(showMsg))

	if got := f.lifecycle.Current().Title(); got != "v2" {
		t.Errorf("Title() after manual reload = %q, want %q", got, "v2")
	}
}

func TestFailedReloadShowsPlaceholderAndLedger(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `#Main: #Window & {title: "ok"}`)
	m := runCycle(t, f.model, TriggerMsg{})

	if err := os.WriteFile(f.sourcePath, []byte(`#Main: #Window & {title: `), 0o644); err != nil {
		t.Fatalf("rewriting window file: %v", err)
	}

	m = runCycle(t, m, TriggerMsg{Changed: []string{"main.cue"}})

	view := m.View()
	if !strings.Contains(view, "no window") {
		t.Error("View() should show the no-window placeholder after a failed reload")
	}
	if !strings.Contains(view, "changed: main.cue") {
		t.Error("View() ledger should mention the changed file")
	}
}

func TestRunHeadlessCompletesInitialCycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `#Main: #Window & {title: "cli"}`)

	triggers := make(chan []string)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coordinator := f.model.coordinator

	done := make(chan error, 1)
	go func() { done <- RunHeadless(ctx, coordinator, triggers, quietLogger()) }()

	deadline := time.After(5 * time.Second)
	for f.lifecycle.Current() == nil || !f.lifecycle.Current().Visible() {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for headless initial cycle")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("RunHeadless() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RunHeadless did not return after cancel")
	}
}
