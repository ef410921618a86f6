// SPDX-License-Identifier: MPL-2.0

package toolkit

import (
	"errors"
	"fmt"
)

// Geometry is a window's size in terminal cells. The zero value means
// "no recorded geometry" and is never applied.
type Geometry struct {
	Width  int
	Height int
}

func (g Geometry) IsZero() bool { return g.Width == 0 && g.Height == 0 }

func (g Geometry) String() string { return fmt.Sprintf("%dx%d", g.Width, g.Height) }

// Window is a live top-level window. Instances are created by Instantiate
// from a validated CUE value and owned by the lifecycle manager; nothing in
// this package retains a reference after construction.
type Window struct {
	typeName string
	kind     string
	title    string
	modal    bool
	geometry Geometry
	children []*Widget

	visible  bool
	focused  bool
	raised   bool
	detached bool
}

// TypeName returns the definition name the window was constructed from,
// e.g. "#MainWin". It is display metadata only.
func (w *Window) TypeName() string { return w.typeName }

func (w *Window) Kind() string        { return w.kind }
func (w *Window) Title() string       { return w.title }
func (w *Window) Modal() bool         { return w.modal }
func (w *Window) Geometry() Geometry  { return w.geometry }
func (w *Window) Children() []*Widget { return w.children }
func (w *Window) Visible() bool       { return w.visible }
func (w *Window) Focused() bool       { return w.focused }
func (w *Window) Raised() bool        { return w.raised }
func (w *Window) Detached() bool      { return w.detached }

// SetGeometry resizes the window. A zero geometry is ignored so callers can
// pass a saved-but-never-recorded value unconditionally.
func (w *Window) SetGeometry(g Geometry) {
	if g.IsZero() {
		return
	}
	w.geometry = g
}

// Show makes the window visible. Raise and Focus are separate calls so the
// host controls stacking order explicitly. A detached window stays hidden;
// it belongs to a retired generation.
func (w *Window) Show() {
	if w.detached {
		return
	}
	w.visible = true
}

func (w *Window) Hide() {
	w.visible = false
	w.focused = false
	w.raised = false
}

func (w *Window) Raise() { w.raised = true }

func (w *Window) Focus() { w.focused = true }

// Detach marks the window as retired. It hides the window and prevents any
// later Show from resurrecting it, so a stale reference held past teardown
// cannot reappear on screen.
func (w *Window) Detach() {
	w.Hide()
	w.detached = true
}

// DetachChildren releases the whole widget tree and empties the child list.
// The list is cleared even when releases fail: a half-torn-down window must
// not keep references that would pin the old generation in memory.
func (w *Window) DetachChildren() error {
	var errs []error
	for _, child := range w.children {
		if err := child.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	w.children = nil

	return errors.Join(errs...)
}

// Walk visits the widget tree depth-first in declaration order, calling fn
// with the nesting depth starting at 0 for direct children.
func (w *Window) Walk(fn func(depth int, widget *Widget)) {
	var visit func(depth int, widgets []*Widget)
	visit = func(depth int, widgets []*Widget) {
		for _, widget := range widgets {
			fn(depth, widget)
			visit(depth+1, widget.children)
		}
	}
	visit(0, w.children)
}

// Summary is a one-line description for the status ledger.
func (w *Window) Summary() string {
	count := 0
	w.Walk(func(int, *Widget) { count++ })
	return fmt.Sprintf("%s (%s %s, %d widgets)", w.typeName, w.kind, w.geometry, count)
}
