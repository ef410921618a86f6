// SPDX-License-Identifier: MPL-2.0

// Package toolkit is the terminal widget toolkit driven by the reload engine.
//
// It supplies the three things the engine needs from a UI runtime:
//   - the base window capabilities (#Window, #Dialog) that entry-point
//     discovery checks candidates against, declared in toolkit_schema.cue
//   - the live object model (Window, Widget) with show/hide/raise/focus and
//     child detachment used by the lifecycle manager
//   - lipgloss rendering of a window for the preview host
//
// The event loop and timer primitives come from bubbletea and are owned by
// internal/host; this package stays loop-agnostic so tests can drive windows
// synchronously.
package toolkit
