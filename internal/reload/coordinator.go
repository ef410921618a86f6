// SPDX-License-Identifier: MPL-2.0

// Package reload drives the teardown/invalidate/load/discover/instantiate/
// show cycle that replaces the live window when its source changes.
//
// The coordinator never panics its caller out of a cycle: every stage
// reports a StageResult, recoverable failures abort the cycle and leave the
// engine Idle with no live window, and the next trigger simply starts over.
package reload

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"cueview-cli/internal/discovery"
	"cueview-cli/internal/registry"
	"cueview-cli/internal/toolkit"
	"cueview-cli/pkg/windowfile"
)

// ErrReloadInFlight reports a trigger that arrived while a cycle was still
// running. The trigger is dropped, not queued; the files on disk will still
// be current when the user saves again.
var ErrReloadInFlight = errors.New("reload already in flight")

type (
	// Config assembles a Coordinator.
	Config struct {
		// SourcePath is the window file that every cycle loads.
		SourcePath string

		// Root is the watched tree; invalidation evicts registry units
		// under it.
		Root string

		// Registry is the unit cache to invalidate and repopulate.
		Registry *registry.Registry

		// Lifecycle owns window generations.
		Lifecycle *Lifecycle

		// Logger receives stage diagnostics. nil defaults to the package
		// default logger.
		Logger *log.Logger
	}

	// Coordinator runs reload cycles. ReloadNow and CompleteShow are safe
	// to call from any goroutine; the in-flight guard spans from the start
	// of a cycle until the constructed window has been shown.
	Coordinator struct {
		cfg    Config
		logger *log.Logger

		mu       sync.Mutex
		stage    Stage
		inFlight bool
	}
)

func NewCoordinator(cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{cfg: cfg, logger: logger}
}

// Stage returns the coordinator's current stage.
func (c *Coordinator) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

func (c *Coordinator) setStage(s Stage) {
	c.mu.Lock()
	c.stage = s
	c.mu.Unlock()
}

// ReloadNow runs one reload cycle to completion or first failure. On
// success the new window is adopted but hidden, and the returned Outcome
// has AwaitShow set: the caller must invoke CompleteShow on a later
// event-loop turn. On failure the engine is left Idle with no live window.
//
// A call while a previous cycle is still in flight (including one awaiting
// its show) returns an Outcome whose Err is ErrReloadInFlight.
func (c *Coordinator) ReloadNow() Outcome {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.logger.Debug("trigger dropped", "reason", "reload in flight")
		return Outcome{Err: ErrReloadInFlight}
	}
	c.inFlight = true
	c.mu.Unlock()

	var out Outcome
	record := func(stage Stage, detail string, err error) {
		out.Events = append(out.Events, StageResult{Stage: stage, Detail: detail, Err: err})
	}
	abort := func(stage Stage, err error) Outcome {
		record(stage, "", err)
		out.Err = err
		c.logger.Error("reload aborted", "stage", stage, "err", err)
		c.setStage(StageIdle)
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
		return out
	}

	// Teardown: errors are suppressed. The old generation is gone either
	// way, and refusing to reload over a broken window would wedge the
	// engine on exactly the code the user is trying to fix.
	c.setStage(StageTearingDown)
	if err := c.cfg.Lifecycle.Teardown(); err != nil {
		record(StageTearingDown, "teardown errors suppressed", err)
	} else {
		record(StageTearingDown, "previous window retired", nil)
	}

	// Invalidate: evict cached units under the watched root so the load
	// below cannot observe any stale evaluation, then nudge the collector
	// to reclaim the dead generation promptly.
	c.setStage(StageInvalidating)
	evicted := c.cfg.Registry.Evict(c.cfg.Root)
	runtime.GC()
	record(StageInvalidating, evictDetail(evicted), nil)

	c.setStage(StageLoading)
	unit, err := windowfile.Load(c.cfg.SourcePath, toolkit.SchemaSource())
	if err != nil {
		return abort(StageLoading, err)
	}
	c.cfg.Registry.Put(unit)
	record(StageLoading, fmt.Sprintf("loaded unit %s", unit.Name), nil)

	c.setStage(StageDiscovering)
	candidate, err := discovery.Discover(unit)
	if err != nil {
		return abort(StageDiscovering, err)
	}
	record(StageDiscovering, fmt.Sprintf("entry point %s", candidate.Name), nil)

	c.setStage(StageInstantiating)
	window, err := toolkit.Instantiate(candidate.Name, candidate.Value, unit.SourcePath)
	if err != nil {
		return abort(StageInstantiating, err)
	}
	c.cfg.Lifecycle.Adopt(window)
	record(StageInstantiating, window.Summary(), nil)

	// The show is deferred one event-loop turn so the host renders the
	// teardown frame before the new window appears; inFlight stays set
	// until CompleteShow so triggers cannot interleave with the handoff.
	c.setStage(StageShowing)
	out.AwaitShow = true
	return out
}

// CompleteShow finishes a cycle whose Outcome had AwaitShow set, making the
// adopted window visible and returning the engine to Idle. Calling it
// without a deferred show pending returns an error result.
func (c *Coordinator) CompleteShow() StageResult {
	c.mu.Lock()
	pending := c.inFlight && c.stage == StageShowing
	c.mu.Unlock()

	if !pending {
		return StageResult{Stage: StageShowing, Err: errors.New("no deferred show pending")}
	}

	res := StageResult{Stage: StageShowing}
	if err := c.cfg.Lifecycle.ShowCurrent(); err != nil {
		res.Err = err
	} else {
		res.Detail = fmt.Sprintf("showing %s", c.cfg.Lifecycle.Current().TypeName())
	}

	c.setStage(StageIdle)
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
	return res
}

func evictDetail(evicted []string) string {
	if len(evicted) == 0 {
		return "no cached units to evict"
	}
	return fmt.Sprintf("evicted %s", strings.Join(evicted, ", "))
}
