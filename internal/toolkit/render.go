// SPDX-License-Identifier: MPL-2.0

package toolkit

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	windowBorder = lipgloss.RoundedBorder()
	dialogBorder = lipgloss.DoubleBorder()

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "252"})

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"}).
			Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "252"})

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "246"}).
			Underline(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)
)

// Render draws a window to a string. The window's own geometry wins; maxWidth
// only clamps when the terminal is narrower than the declared width. Hidden
// windows render to the empty string.
func Render(w *Window, maxWidth int) string {
	if !w.visible {
		return ""
	}

	width := w.geometry.Width
	if maxWidth > 4 && width > maxWidth-2 {
		width = maxWidth - 2
	}
	if width < 10 {
		width = 10
	}

	border := windowBorder
	if w.kind == "dialog" {
		border = dialogBorder
	}

	frame := lipgloss.NewStyle().
		Border(border).
		Width(width).
		Padding(0, 1)

	var body strings.Builder
	body.WriteString(titleStyle.Render(w.title))
	body.WriteString("\n")
	for _, child := range w.children {
		body.WriteString(renderWidget(child, width-2))
		body.WriteString("\n")
	}

	return frame.Render(strings.TrimRight(body.String(), "\n"))
}

func renderWidget(w *Widget, width int) string {
	switch w.kind {
	case WidgetLabel:
		return w.text
	case WidgetButton:
		return buttonStyle.Render(w.text)
	case WidgetInput:
		text := w.text
		if text == "" {
			text = strings.Repeat(" ", 16)
		}
		return inputStyle.Render(text)
	case WidgetSpacer:
		return ""
	case WidgetBox:
		var inner strings.Builder
		for i, child := range w.children {
			if i > 0 {
				inner.WriteString("\n")
			}
			inner.WriteString(renderWidget(child, width-4))
		}
		return boxStyle.Render(inner.String())
	default:
		return w.text
	}
}
