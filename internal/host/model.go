// SPDX-License-Identifier: MPL-2.0

package host

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cueview-cli/internal/registry"
	"cueview-cli/internal/reload"
)

// ledgerCap bounds the status ledger; older entries scroll off.
const ledgerCap = 50

type (
	// TriggerMsg is posted by the watcher (or a manual reload key) to start
	// a cycle. Changed lists the paths that caused it, empty for manual and
	// initial loads.
	TriggerMsg struct {
		Changed []string
	}

	// reloadDoneMsg carries a finished cycle back onto the UI loop.
	reloadDoneMsg struct {
		outcome reload.Outcome
	}

	// showMsg completes a deferred show. It is emitted as a command from
	// the reloadDoneMsg turn, so it arrives on a later turn and the
	// intermediate frame gets rendered.
	showMsg struct{}

	// fatalMsg stops the program from outside, e.g. watcher death.
	fatalMsg struct{}

	ledgerEntry struct {
		when   time.Time
		stage  reload.Stage
		detail string
		err    error
	}

	keyMap struct {
		Quit      key.Binding
		Reload    key.Binding
		Inspector key.Binding
	}

	// ModelConfig assembles a Model.
	ModelConfig struct {
		Coordinator *reload.Coordinator
		Lifecycle   *reload.Lifecycle
		Registry    *registry.Registry

		// ProjectName labels the header.
		ProjectName string

		// EntryName is the entry file shown in the header, usually
		// relative to the root.
		EntryName string

		// MaxWidth caps window rendering; zero uses the terminal width.
		MaxWidth int

		// Inspector shows the widget-tree sidebar initially.
		Inspector bool
	}

	// Model is the bubbletea model for the preview surface.
	Model struct {
		coordinator *reload.Coordinator
		lifecycle   *reload.Lifecycle
		registry    *registry.Registry

		projectName string
		entryName   string
		maxWidth    int

		keys          keyMap
		width, height int
		showInspector bool

		ledger  []ledgerEntry
		reloads int
	}
)

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Inspector: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "inspector")),
	}
}

func NewModel(cfg ModelConfig) Model {
	return Model{
		coordinator:   cfg.Coordinator,
		lifecycle:     cfg.Lifecycle,
		registry:      cfg.Registry,
		projectName:   cfg.ProjectName,
		entryName:     cfg.EntryName,
		maxWidth:      cfg.MaxWidth,
		showInspector: cfg.Inspector,
		keys:          defaultKeyMap(),
	}
}

// startupDelay gives the terminal a first paint before the initial load.
const startupDelay = 50 * time.Millisecond

// Init schedules the initial load as if the watcher had fired.
func (m Model) Init() tea.Cmd {
	return tea.Tick(startupDelay, func(time.Time) tea.Msg { return TriggerMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, m.reloadCmd()
		case key.Matches(msg, m.keys.Inspector):
			m.showInspector = !m.showInspector
			return m, nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TriggerMsg:
		if len(msg.Changed) > 0 {
			m = m.appendLedger(ledgerEntry{
				when:   time.Now(),
				stage:  reload.StageIdle,
				detail: changedSummary(msg.Changed),
			})
		}
		return m, m.reloadCmd()

	case reloadDoneMsg:
		for _, ev := range msg.outcome.Events {
			m = m.appendLedger(ledgerEntry{
				when:   time.Now(),
				stage:  ev.Stage,
				detail: ev.Detail,
				err:    ev.Err,
			})
		}
		if msg.outcome.AwaitShow {
			// A plain command: its message lands on a later turn, which is
			// the whole point of the deferred show.
			return m, func() tea.Msg { return showMsg{} }
		}
		return m, nil

	case showMsg:
		res := m.coordinator.CompleteShow()
		m = m.appendLedger(ledgerEntry{
			when:   time.Now(),
			stage:  res.Stage,
			detail: res.Detail,
			err:    res.Err,
		})
		if res.Err == nil {
			m.reloads++
		}
		return m, nil

	case fatalMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		return reloadDoneMsg{outcome: m.coordinator.ReloadNow()}
	}
}

func (m Model) appendLedger(e ledgerEntry) Model {
	m.ledger = append(m.ledger, e)
	if len(m.ledger) > ledgerCap {
		m.ledger = m.ledger[len(m.ledger)-ledgerCap:]
	}
	return m
}

func changedSummary(changed []string) string {
	if len(changed) == 1 {
		return "changed: " + changed[0]
	}
	return fmt.Sprintf("changed: %s (+%d more)", changed[0], len(changed)-1)
}
