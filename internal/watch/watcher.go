// SPDX-License-Identifier: MPL-2.0

// Package watch provides file-watching with two-stage trigger suppression.
//
// It monitors a directory tree for changes to files matching glob patterns
// and invokes a trigger callback. Suppression happens in two stages: events
// arriving within the cooldown window after the previous trigger are dropped
// outright, and accepted events are held for a short delay so rapid
// successive events (an editor writing then renaming a temp file) coalesce
// into a single trigger.
package watch

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	gitignore "github.com/sabhiram/go-gitignore"
)

const (
	// cooldownWindow is stage one: any event arriving this soon after the
	// previous trigger fired is dropped entirely. It does not reschedule
	// anything, so a stream of events during the cooldown produces no
	// trigger at all.
	cooldownWindow = 1 * time.Second

	// triggerDelay is stage two: an accepted event arms a one-shot timer
	// and the trigger fires when it expires. Further accepted events while
	// the timer is armed join the pending set without rearming it, so the
	// trigger latency after the first accepted event is bounded.
	triggerDelay = 300 * time.Millisecond
)

// defaultIgnores lists path patterns that are always excluded from watching,
// regardless of user-supplied ignore patterns. These cover VCS metadata,
// dependency caches, editor swap files, and OS metadata files that generate
// high-frequency noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/cue.mod/pkg/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory tree to watch. All patterns are resolved
		// relative to this path. An empty value defaults to the current
		// working directory.
		Root string

		// Patterns are doublestar-compatible glob patterns (e.g.,
		// "**/*.cue") that select which files trigger callbacks. An empty
		// slice watches all non-ignored files.
		Patterns []string

		// Ignore are additional doublestar-compatible glob patterns for
		// paths that should never trigger callbacks. These are merged with
		// the built-in default ignores.
		Ignore []string

		// UseGitignore loads Root/.gitignore, when present, as a further
		// ignore source.
		UseGitignore bool

		// OnTrigger is called after suppression with the deduplicated,
		// sorted list of changed file paths (relative to Root). It runs on
		// the watcher's timer goroutine and must hand off quickly; a nil
		// callback is a no-op.
		OnTrigger func(changed []string)

		// Logger receives skipped-path and non-fatal event diagnostics.
		// nil defaults to the package-level default logger.
		Logger *log.Logger
	}

	// Watcher monitors a directory tree and fires a suppressed trigger
	// callback when matching files change. Run must be called exactly once;
	// calling it a second time returns an error.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		gitIgn   *gitignore.GitIgnore
		logger   *log.Logger
		root     string
		started  atomic.Bool
		lastFire time.Time
		mu       sync.Mutex
	}
)

// New creates a Watcher from the given Config. It resolves Root to an
// absolute path, initialises the underlying fsnotify watcher, and registers
// all non-ignored directories under Root for monitoring.
//
// Errors from New are fatal: a watcher that cannot be set up means live
// reload is unavailable and the caller should exit rather than run blind.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("watch: root %q: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: root %q is not a directory", absRoot)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	// Validate all patterns eagerly so invalid globs fail at construction
	// time rather than silently failing to match at runtime.
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, err
	}

	// Merge user ignores with built-in defaults.
	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	var gitIgn *gitignore.GitIgnore
	if cfg.UseGitignore {
		gitignorePath := filepath.Join(absRoot, ".gitignore")
		if _, statErr := os.Stat(gitignorePath); statErr == nil {
			gitIgn, err = gitignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				fsw.Close() //nolint:errcheck // best-effort cleanup
				return nil, fmt.Errorf("watch: compile %s: %w", gitignorePath, err)
			}
		}
	}

	w := &Watcher{
		cfg:     cfg,
		fsw:     fsw,
		ignores: ignores,
		gitIgn:  gitIgn,
		logger:  logger,
		root:    absRoot,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close after init failure", "err", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Root returns the absolute watched root.
func (w *Watcher) Root() string { return w.root }

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching suppressed triggers. It returns nil on clean context
// cancellation and propagates any fatal watcher errors. Run must be called
// exactly once; a second call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		armed   bool
	)

	// fire drains the pending set and invokes OnTrigger. It runs on the
	// timer goroutine; it may be invoked after the context is cancelled, so
	// check ctx.Err() as a best-effort guard. The cooldown clock starts
	// here, when the trigger actually fires, not when the first event was
	// accepted.
	fire := func() {
		if ctx.Err() != nil {
			return
		}

		w.mu.Lock()
		armed = false
		w.lastFire = time.Now()
		if len(pending) == 0 {
			w.mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		w.mu.Unlock()

		if w.cfg.OnTrigger != nil {
			w.cfg.OnTrigger(changed)
		}
	}

	// Ensure the timer channel is drained on exit. The timer is accessed
	// under mu because it is written by the event loop under the same lock.
	defer func() {
		w.mu.Lock()
		localTimer := timer
		w.mu.Unlock()
		if localTimer != nil && !localTimer.Stop() {
			select {
			case <-localTimer.C:
			default:
			}
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.root, evt.Name)
			if err != nil {
				rel = evt.Name
			}

			if w.isIgnored(rel) {
				continue
			}

			// Auto-add newly created directories so recursive watches
			// extend to directories created after startup. Done before the
			// pattern check: directories rarely match file patterns.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			if !w.matchesPatterns(rel) {
				continue
			}

			w.mu.Lock()
			if since := time.Since(w.lastFire); !w.lastFire.IsZero() && since < cooldownWindow {
				// Stage one: inside the cooldown the event is dropped, and
				// nothing is armed or rearmed on its behalf.
				w.mu.Unlock()
				w.logger.Debug("event suppressed by cooldown", "path", rel, "since", since)
				continue
			}
			pending[rel] = struct{}{}
			if !armed {
				// Stage two: first accepted event arms the delay; later
				// ones only join the pending set.
				armed = true
				if timer == nil {
					timer = time.AfterFunc(triggerDelay, fire)
				} else {
					timer.Reset(triggerDelay)
				}
			}
			w.mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// Resource exhaustion means the watcher cannot see further
			// changes; the classification is platform-specific (see
			// watcher_fatal_*.go).
			if isFatalWatchError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// addDirectories walks Root and adds every non-ignored directory to the
// fsnotify watcher. All directories are registered regardless of watch
// patterns; pattern filtering is applied when events arrive (see
// matchesPatterns).
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.root, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			// Best-effort: skip directories we cannot access rather than
			// aborting the entire walk. Permission errors on individual
			// dirs are common (e.g., .git/objects/pack) and should not
			// prevent watching.
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}

		// Skip ignored directories entirely to avoid descending into them.
		if w.isIgnored(rel) || w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir adds path to the fsnotify watcher if it is a directory and is
// not ignored. This enables automatic monitoring of directories created
// after the initial walk.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}

	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}

	if addErr := w.fsw.Add(path); addErr != nil {
		w.logger.Warn("add new directory", "path", path, "err", addErr)
	}
}

// isIgnored returns true if the given path (relative to Root) matches any
// ignore pattern or, when enabled, a .gitignore rule.
func (w *Watcher) isIgnored(rel string) bool {
	// Normalise to forward slashes for consistent glob matching.
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	if w.gitIgn != nil && w.gitIgn.MatchesPath(normalized) {
		return true
	}
	return false
}

// matchesPatterns returns true if the given path (relative to Root) matches
// at least one of the configured watch patterns. When no patterns are
// configured, all paths match.
func (w *Watcher) matchesPatterns(rel string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.cfg.Patterns {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns. This is
// useful for tests and tooling that need to verify the default behaviour.
func DefaultIgnores() []string {
	out := make([]string, len(defaultIgnores))
	copy(out, defaultIgnores)
	return out
}

// validatePatterns checks that every pattern in the slice is a valid
// doublestar glob. The label (e.g., "watch" or "ignore") is used in error
// messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, err)
		}
	}
	return nil
}
