// SPDX-License-Identifier: MPL-2.0

package toolkit

import (
	"errors"
	"fmt"
)

// WidgetKind enumerates the widget vocabulary. The set matches the kind
// disjunction in toolkit_schema.cue.
type WidgetKind string

const (
	WidgetLabel  WidgetKind = "label"
	WidgetButton WidgetKind = "button"
	WidgetInput  WidgetKind = "input"
	WidgetBox    WidgetKind = "box"
	WidgetSpacer WidgetKind = "spacer"
)

// Widget is a live widget instance. Widgets form a tree under a Window and
// are released exactly once when the window tears down; a second release is
// an error so lifecycle bugs surface instead of silently double-freeing.
type Widget struct {
	kind     WidgetKind
	id       string
	text     string
	children []*Widget
	released bool
}

func newWidget(spec WidgetSpec) *Widget {
	w := &Widget{
		kind: WidgetKind(spec.Kind),
		id:   spec.ID,
		text: spec.Text,
	}
	for _, child := range spec.Children {
		w.children = append(w.children, newWidget(child))
	}
	return w
}

func (w *Widget) Kind() WidgetKind    { return w.kind }
func (w *Widget) ID() string          { return w.id }
func (w *Widget) Text() string        { return w.text }
func (w *Widget) Children() []*Widget { return w.children }
func (w *Widget) Released() bool      { return w.released }

// Label is the widget's display name for the inspector: the id when set,
// otherwise the kind.
func (w *Widget) Label() string {
	if w.id != "" {
		return fmt.Sprintf("%s#%s", w.kind, w.id)
	}
	return string(w.kind)
}

// Release tears the widget down, children first. Errors from descendants do
// not stop the remaining siblings from being released; all failures are
// joined into the returned error.
func (w *Widget) Release() error {
	if w.released {
		return fmt.Errorf("widget %s: already released", w.Label())
	}

	var errs []error
	for _, child := range w.children {
		if err := child.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	w.released = true

	return errors.Join(errs...)
}
