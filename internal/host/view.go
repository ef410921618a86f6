// SPDX-License-Identifier: MPL-2.0

package host

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cueview-cli/internal/reload"
	"cueview-cli/internal/toolkit"
)

const inspectorWidth = 28

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(lipgloss.AdaptiveColor{Light: "254", Dark: "236"})

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})

	inspectorStyle = lipgloss.NewStyle().
			Width(inspectorWidth).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "246"})

	ledgerTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "242"})

	ledgerErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "204"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "241"})

	emptyStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "242"}).
			Italic(true)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.bodyView())
	b.WriteString("\n")
	b.WriteString(m.ledgerView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit · r reload · tab inspector"))

	return b.String()
}

func (m Model) headerView() string {
	stage := m.coordinator.Stage()
	status := stageStyle.Render(stage.String())
	if stage == reload.StageIdle {
		status = stageStyle.Render(fmt.Sprintf("idle · %d reloads", m.reloads))
	}
	return headerStyle.Render(fmt.Sprintf("cueview · %s · %s  %s", m.projectName, m.entryName, status))
}

func (m Model) bodyView() string {
	window := m.lifecycle.Current()

	renderWidth := m.maxWidth
	if renderWidth == 0 || (m.width > 0 && renderWidth > m.width) {
		renderWidth = m.width
	}
	if m.showInspector && renderWidth > inspectorWidth {
		renderWidth -= inspectorWidth
	}

	var main string
	switch {
	case window == nil:
		main = emptyStyle.Render("no window · fix the file and save to reload")
	case !window.Visible():
		main = emptyStyle.Render("constructing " + window.TypeName() + " ...")
	default:
		main = toolkit.Render(window, renderWidth)
	}

	if !m.showInspector {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, m.inspectorView(window))
}

// inspectorView renders the widget tree of the current window as an
// indented outline.
func (m Model) inspectorView(window *toolkit.Window) string {
	var b strings.Builder
	b.WriteString("inspector\n")

	if window == nil {
		b.WriteString("  (no window)")
		return inspectorStyle.Render(b.String())
	}

	b.WriteString(window.TypeName())
	b.WriteString(" ")
	b.WriteString(window.Geometry().String())
	window.Walk(func(depth int, w *toolkit.Widget) {
		b.WriteString("\n")
		b.WriteString(strings.Repeat("  ", depth+1))
		b.WriteString(w.Label())
	})

	return inspectorStyle.Render(b.String())
}

func (m Model) ledgerView() string {
	show := 6
	start := len(m.ledger) - show
	if start < 0 {
		start = 0
	}

	var lines []string
	for _, e := range m.ledger[start:] {
		ts := ledgerTimeStyle.Render(e.when.Format("15:04:05"))
		switch {
		case e.err != nil:
			lines = append(lines, fmt.Sprintf("%s %s %s", ts, e.stage, ledgerErrStyle.Render(e.err.Error())))
		case e.detail != "":
			lines = append(lines, fmt.Sprintf("%s %s %s", ts, e.stage, e.detail))
		default:
			lines = append(lines, fmt.Sprintf("%s %s", ts, e.stage))
		}
	}
	if len(lines) == 0 {
		return ledgerTimeStyle.Render("waiting for first load")
	}
	return strings.Join(lines, "\n")
}
