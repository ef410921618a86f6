// SPDX-License-Identifier: MPL-2.0

// Package bootstrap resolves what to preview. It turns the single CLI
// argument (a window file or a project directory) into a watched root and
// an entry file, reading the optional cueview.toml manifest for watch
// patterns and a provisioning script.
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"cueview-cli/pkg/fspath"
)

// ManifestName is the project manifest filename looked up in the root.
const ManifestName = "cueview.toml"

var (
	// ErrManifestInvalid marks a cueview.toml that could not be parsed.
	// Callers match it to pick user guidance; the wrapped cause carries
	// the TOML position.
	ErrManifestInvalid = errors.New("invalid manifest")

	// ErrEntryMissing marks a resolved entry file that does not exist.
	ErrEntryMissing = errors.New("entry file missing")
)

// defaultEntry is the window file assumed when a directory is previewed
// without a manifest naming one.
const defaultEntry = "main.cue"

type (
	// Manifest is the decoded cueview.toml. All fields are optional; the
	// zero manifest previews <root>/main.cue watching every .cue file.
	Manifest struct {
		// Name labels the project in the UI header. Defaults to the root
		// directory's base name.
		Name string `toml:"name"`

		// Entry is the window file, relative to the root.
		Entry string `toml:"entry"`

		// Watch are the glob patterns that trigger reloads.
		Watch []string `toml:"watch"`

		// Ignore are additional glob patterns that never trigger reloads.
		Ignore []string `toml:"ignore"`

		// UseGitignore additionally applies the root's .gitignore rules.
		UseGitignore bool `toml:"use_gitignore"`

		// Requires lists files, relative to the root, that must exist
		// before a session starts: widget libraries, generated inputs.
		// Provisioning is expected to produce them when they are absent.
		Requires []string `toml:"requires"`

		// Provision optionally prepares the project before the first load.
		Provision Provision `toml:"provision"`
	}

	// Provision describes a shell script run once at startup, before the
	// watcher starts. Fetching generated inputs or unpacking fixtures
	// belongs here, not in window files.
	Provision struct {
		// Script is a POSIX shell script executed with the root as its
		// working directory. Empty means no provisioning.
		Script string `toml:"script"`

		// Env adds environment variables visible to the script, on top of
		// the parent process environment.
		Env map[string]string `toml:"env"`
	}

	// Target is the fully resolved preview target.
	Target struct {
		// Root is the absolute watched directory.
		Root string

		// Entry is the absolute path of the window file.
		Entry string

		// Manifest is the loaded (or defaulted) project manifest.
		Manifest Manifest
	}
)

// Resolve turns the CLI argument into a Target. A .cue file argument
// previews that file with the nearest manifest-holding ancestor directory
// as the root (falling back to its own directory); a directory argument
// reads the manifest (when present) for the entry file. The entry file must
// exist in both cases: a preview of nothing is a usage error, not an empty
// session.
func Resolve(arg string) (*Target, error) {
	abs, err := fspath.EnsureAbs(arg)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", arg, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", arg, err)
	}

	var root, entry string
	switch {
	case info.IsDir():
		root = abs
	case strings.EqualFold(filepath.Ext(abs), ".cue"):
		root = findRoot(filepath.Dir(abs))
		entry = abs
	default:
		return nil, fmt.Errorf("resolve %s: not a directory or .cue file", arg)
	}

	manifest, err := loadManifest(root)
	if err != nil {
		return nil, err
	}
	manifest.applyDefaults(root)

	if entry == "" {
		entry = filepath.Join(root, filepath.FromSlash(manifest.Entry))
	}
	if !fspath.IsUnder(root, entry) {
		return nil, fmt.Errorf("entry %s escapes the project root %s", manifest.Entry, root)
	}
	if _, err := os.Stat(entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntryMissing, err)
	}

	return &Target{Root: root, Entry: entry, Manifest: manifest}, nil
}

// CheckRequires verifies every file the manifest declares as required.
// Called after provisioning, so a provision script gets the chance to
// produce them first.
func (t *Target) CheckRequires() error {
	for _, req := range t.Manifest.Requires {
		path := filepath.Join(t.Root, filepath.FromSlash(req))
		if !fspath.IsUnder(t.Root, path) {
			return fmt.Errorf("required file %s escapes the project root %s", req, t.Root)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("required file %s: %w", req, err)
		}
	}
	return nil
}

// findRoot walks from dir toward the filesystem root and returns the
// nearest directory holding a manifest; dir itself is the fallback, so a
// bare .cue file previews with its parent as the root.
func findRoot(dir string) string {
	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, ManifestName)); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			return dir
		}
		d = parent
	}
}

// loadManifest reads root/cueview.toml. A missing manifest is not an error;
// the zero manifest with defaults applied is returned instead.
func loadManifest(root string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(filepath.Join(root, ManifestName))
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("read %s: %w", ManifestName, err)
	}

	if err := toml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: parse %s: %w", ErrManifestInvalid, ManifestName, err)
	}
	return m, nil
}

func (m *Manifest) applyDefaults(root string) {
	if m.Name == "" {
		m.Name = filepath.Base(root)
	}
	if m.Entry == "" {
		m.Entry = defaultEntry
	}
	if len(m.Watch) == 0 {
		m.Watch = []string{"**/*.cue"}
	}
}
