// SPDX-License-Identifier: MPL-2.0

// Package registry tracks loaded window units by name. It is the mutable
// cache the invalidation step works against: eviction removes every unit
// whose source lives under the watched root, so third-party units loaded
// from elsewhere survive a reload untouched.
package registry

import (
	"slices"
	"sync"

	"golang.org/x/exp/maps"

	"cueview-cli/pkg/fspath"
	"cueview-cli/pkg/windowfile"
)

// Registry is safe for concurrent use. The reload coordinator serializes
// reloads, but the status ledger reads the registry from the UI loop while
// a headless run may be mid-cycle.
type Registry struct {
	mu    sync.Mutex
	units map[string]*windowfile.Unit
}

func New() *Registry {
	return &Registry{units: make(map[string]*windowfile.Unit)}
}

// Put registers a unit under its name, replacing any previous generation.
func (r *Registry) Put(u *windowfile.Unit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[u.Name] = u
}

func (r *Registry) Get(name string) (*windowfile.Unit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[name]
	return u, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.units)
}

// Names returns the registered unit names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := maps.Keys(r.units)
	slices.Sort(names)
	return names
}

// Evict drops every unit whose source path is under root and returns the
// evicted names, sorted. Units outside root are deliberately retained.
func (r *Registry) Evict(root string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for name, u := range r.units {
		if fspath.IsUnder(root, u.SourcePath) {
			delete(r.units, name)
			evicted = append(evicted, name)
		}
	}
	slices.Sort(evicted)
	return evicted
}
