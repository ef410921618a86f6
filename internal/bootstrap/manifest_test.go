// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestResolveFileArgument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeFile(t, dir, "app.cue", `#Main: {}`)

	target, err := Resolve(entry)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if target.Root != dir {
		t.Errorf("Root = %q, want %q", target.Root, dir)
	}
	if target.Entry != entry {
		t.Errorf("Entry = %q, want %q", target.Entry, entry)
	}
	if target.Manifest.Name != filepath.Base(dir) {
		t.Errorf("Name = %q, want root base name", target.Manifest.Name)
	}
	if !slices.Equal(target.Manifest.Watch, []string{"**/*.cue"}) {
		t.Errorf("Watch = %v, want default pattern", target.Manifest.Watch)
	}
}

func TestResolveDirectoryWithManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "ui"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, dir, ManifestName, `
name = "demo"
entry = "ui/app.cue"
watch = ["ui/**/*.cue"]
ignore = ["**/generated/**"]
use_gitignore = true
`)
	writeFile(t, filepath.Join(dir, "ui"), "app.cue", `#Main: {}`)

	target, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if target.Manifest.Name != "demo" {
		t.Errorf("Name = %q, want %q", target.Manifest.Name, "demo")
	}
	if want := filepath.Join(dir, "ui", "app.cue"); target.Entry != want {
		t.Errorf("Entry = %q, want %q", target.Entry, want)
	}
	if !target.Manifest.UseGitignore {
		t.Error("UseGitignore should be true")
	}
	if !slices.Equal(target.Manifest.Ignore, []string{"**/generated/**"}) {
		t.Errorf("Ignore = %v", target.Manifest.Ignore)
	}
}

func TestResolveFileFindsAncestorManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ManifestName, `name = "nested"`)
	if err := os.Mkdir(filepath.Join(dir, "ui"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	entry := writeFile(t, filepath.Join(dir, "ui"), "panel.cue", `#Main: {}`)

	target, err := Resolve(entry)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Root != dir {
		t.Errorf("Root = %q, want manifest ancestor %q", target.Root, dir)
	}
	if target.Manifest.Name != "nested" {
		t.Errorf("Name = %q, want %q", target.Manifest.Name, "nested")
	}
}

func TestResolveDirectoryWithoutManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.cue", `#Main: {}`)

	target, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := filepath.Join(dir, "main.cue"); target.Entry != want {
		t.Errorf("Entry = %q, want default %q", target.Entry, want)
	}
}

func TestResolveMissingEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Resolve(dir)
	if err == nil {
		t.Fatal("Resolve() should fail when the entry file does not exist")
	}
	if !errors.Is(err, ErrEntryMissing) {
		t.Errorf("error = %v, want ErrEntryMissing in the chain", err)
	}
}

func TestResolveRejectsEscapingEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ManifestName, `entry = "../outside.cue"`)

	_, err := Resolve(dir)
	if err == nil {
		t.Fatal("Resolve() should reject an entry outside the root")
	}
	if !strings.Contains(err.Error(), "escapes") {
		t.Errorf("error = %q, want mention of root escape", err)
	}
}

func TestCheckRequires(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ManifestName, `requires = ["widgets.cue", "data/fixtures.cue"]`)
	writeFile(t, dir, "main.cue", `#Main: {}`)
	writeFile(t, dir, "widgets.cue", `#Card: {}`)

	target, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// One declared file is still missing, as before a provision run.
	if err := target.CheckRequires(); err == nil {
		t.Error("CheckRequires() should report the missing file")
	}

	if err := os.Mkdir(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(dir, "data"), "fixtures.cue", `rows: []`)

	if err := target.CheckRequires(); err != nil {
		t.Errorf("CheckRequires() after providing the file = %v", err)
	}
}

func TestCheckRequiresRejectsEscape(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ManifestName, `requires = ["../outside.cue"]`)
	writeFile(t, dir, "main.cue", `#Main: {}`)

	target, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := target.CheckRequires(); err == nil || !strings.Contains(err.Error(), "escapes") {
		t.Errorf("CheckRequires() = %v, want root escape error", err)
	}
}

func TestResolveRejectsNonCueFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "hello")

	if _, err := Resolve(path); err == nil {
		t.Error("Resolve() should reject a non-.cue file argument")
	}
}

func TestResolveMalformedManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ManifestName, `entry = [broken`)
	writeFile(t, dir, "main.cue", `#Main: {}`)

	_, err := Resolve(dir)
	if err == nil {
		t.Fatal("Resolve() should fail on a malformed manifest")
	}
	if !strings.Contains(err.Error(), ManifestName) {
		t.Errorf("error = %q, want mention of %s", err, ManifestName)
	}
	if !errors.Is(err, ErrManifestInvalid) {
		t.Errorf("error = %v, want ErrManifestInvalid in the chain", err)
	}
}
