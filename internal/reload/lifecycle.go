// SPDX-License-Identifier: MPL-2.0

package reload

import (
	"errors"

	"github.com/charmbracelet/log"

	"cueview-cli/internal/toolkit"
)

// Lifecycle owns the current window generation. Exactly one window is live
// at a time; Teardown retires the old generation and Adopt installs the
// next one, carrying the previous geometry across so a reload does not
// snap the window back to its declared size after the user resized it.
//
// Lifecycle is not safe for concurrent use; the coordinator serializes all
// access.
type Lifecycle struct {
	logger *log.Logger

	current       *toolkit.Window
	savedGeometry toolkit.Geometry
}

func NewLifecycle(logger *log.Logger) *Lifecycle {
	if logger == nil {
		logger = log.Default()
	}
	return &Lifecycle{logger: logger}
}

// Current returns the live window, or nil when none has been constructed
// yet or the last cycle aborted after teardown.
func (l *Lifecycle) Current() *toolkit.Window { return l.current }

// SavedGeometry returns the geometry that will be applied to the next
// adopted window.
func (l *Lifecycle) SavedGeometry() toolkit.Geometry { return l.savedGeometry }

// Teardown retires the current window: records its geometry, hides it, and
// detaches its widget tree. Errors are returned for reporting but must
// never abort a reload; a half-broken old generation is exactly what a
// reload is trying to replace. The current reference is always cleared.
//
// Teardown with no live window is a no-op, which is the normal first-cycle
// path.
func (l *Lifecycle) Teardown() error {
	if l.current == nil {
		return nil
	}

	w := l.current
	l.current = nil

	if g := w.Geometry(); !g.IsZero() {
		l.savedGeometry = g
	}

	w.Detach()

	var errs []error
	if err := w.DetachChildren(); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	if err != nil {
		l.logger.Warn("teardown finished with errors", "window", w.TypeName(), "err", err)
	} else {
		l.logger.Debug("teardown complete", "window", w.TypeName())
	}
	return err
}

// Adopt installs w as the current generation and applies the saved
// geometry. The window stays hidden; showing is a separate step the host
// defers by one event-loop turn.
func (l *Lifecycle) Adopt(w *toolkit.Window) {
	l.current = w
	w.SetGeometry(l.savedGeometry)
	l.logger.Debug("adopted window", "window", w.TypeName(), "geometry", w.Geometry())
}

// ShowCurrent makes the current window visible, raised, and focused.
// Calling it with no current window is an error; it means the host lost
// track of the cycle state.
func (l *Lifecycle) ShowCurrent() error {
	if l.current == nil {
		return errors.New("no window to show")
	}
	l.current.Show()
	l.current.Raise()
	l.current.Focus()
	return nil
}
