// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"path/filepath"
	"slices"
	"testing"

	"cueview-cli/pkg/windowfile"
)

func unitAt(name, path string) *windowfile.Unit {
	return &windowfile.Unit{Name: name, SourcePath: path}
}

func TestPutGetReplacesGeneration(t *testing.T) {
	t.Parallel()

	r := New()
	first := unitAt("main", "/proj/main.cue")
	second := unitAt("main", "/proj/main.cue")

	r.Put(first)
	r.Put(second)

	got, ok := r.Get("main")
	if !ok {
		t.Fatal("Get() should find the unit")
	}
	if got != second {
		t.Error("Put should replace the previous generation")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestEvictOnlyUnderRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	elsewhere := t.TempDir()

	r := New()
	r.Put(unitAt("main", filepath.Join(root, "main.cue")))
	r.Put(unitAt("sidebar", filepath.Join(root, "ui", "sidebar.cue")))
	r.Put(unitAt("vendor_theme", filepath.Join(elsewhere, "theme.cue")))

	evicted := r.Evict(root)

	want := []string{"main", "sidebar"}
	if !slices.Equal(evicted, want) {
		t.Errorf("Evict() = %v, want %v", evicted, want)
	}

	if _, ok := r.Get("vendor_theme"); !ok {
		t.Error("unit outside the root must survive eviction")
	}
	if _, ok := r.Get("main"); ok {
		t.Error("unit under the root must be gone after eviction")
	}
}

func TestEvictEmptyRegistry(t *testing.T) {
	t.Parallel()

	r := New()
	if evicted := r.Evict(t.TempDir()); len(evicted) != 0 {
		t.Errorf("Evict() on empty registry = %v, want none", evicted)
	}
}

func TestNamesSorted(t *testing.T) {
	t.Parallel()

	r := New()
	r.Put(unitAt("zeta", "/p/zeta.cue"))
	r.Put(unitAt("alpha", "/p/alpha.cue"))

	if got := r.Names(); !slices.Equal(got, []string{"alpha", "zeta"}) {
		t.Errorf("Names() = %v, want sorted", got)
	}
}
