// SPDX-License-Identifier: MPL-2.0

package reload

// Stage identifies where in the reload cycle the coordinator currently is.
// Transitions are strictly linear: Idle -> TearingDown -> Invalidating ->
// Loading -> Discovering -> Instantiating -> Showing -> Idle, with any
// recoverable failure short-circuiting back to Idle.
type Stage int

const (
	StageIdle Stage = iota
	StageTearingDown
	StageInvalidating
	StageLoading
	StageDiscovering
	StageInstantiating
	StageShowing
)

var stageNames = map[Stage]string{
	StageIdle:          "idle",
	StageTearingDown:   "teardown",
	StageInvalidating:  "invalidate",
	StageLoading:       "load",
	StageDiscovering:   "discover",
	StageInstantiating: "instantiate",
	StageShowing:       "show",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// StageResult records the outcome of one stage for the status ledger.
// Failures are values here, not control flow: a suppressed teardown error
// and a cycle-aborting load error are both StageResults, distinguished by
// how the coordinator reacted.
type StageResult struct {
	Stage  Stage
	Detail string
	Err    error
}

// Outcome is the result of one full reload cycle.
type Outcome struct {
	// Events lists per-stage results in execution order.
	Events []StageResult

	// Err is the first error that aborted the cycle, nil when the cycle
	// reached construction. Suppressed teardown errors never set Err.
	Err error

	// AwaitShow is true when a window was constructed and adopted but not
	// yet shown; the host must call CompleteShow after its event loop has
	// turned over once.
	AwaitShow bool
}

// Failed reports whether the cycle aborted before constructing a window.
func (o Outcome) Failed() bool { return o.Err != nil }
