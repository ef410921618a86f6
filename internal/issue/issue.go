// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	WatchSetupFailedId Id = iota + 1
	WindowFileNotFoundId
	WindowFileParseErrorId
	NoWindowFoundId
	ConstructionFailedId
	ConfigLoadFailedId
	ManifestInvalidId
	ProvisionFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	watchSetupFailedIssue = &Issue{
		id: WatchSetupFailedId,
		mdMsg: `
# Could not start the file watcher!

Live reload is unavailable, so cueview exits instead of previewing stale
files.

## Common causes:
- The watch root does not exist or is not a directory
- The inotify watch limit is exhausted (Linux)
- Too many open file descriptors

## Things you can try:
- On Linux, raise the inotify limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~

- Narrow the watched tree with ignore patterns in cueview.toml:
~~~toml
ignore = ["**/generated/**", "**/vendor/**"]
~~~

- Close other tools that hold many watches (IDEs, other previewers)`,
	}

	windowFileNotFoundIssue = &Issue{
		id: WindowFileNotFoundId,
		mdMsg: `
# No window file found!

The preview target does not name a window file that exists.

## Resolution order:
1. A ` + "`.cue`" + ` file argument is previewed directly
2. A directory argument reads ` + "`entry`" + ` from its cueview.toml
3. Without a manifest, ` + "`main.cue`" + ` in the directory is assumed

## Things you can try:
- Point at a file explicitly:
~~~
$ cueview ui/app.cue
~~~

- Or add an entry to cueview.toml:
~~~toml
entry = "ui/app.cue"
~~~`,
	}

	windowFileParseErrorIssue = &Issue{
		id: WindowFileParseErrorId,
		mdMsg: `
# Failed to evaluate the window file!

Your window file contains syntax errors or values that conflict with the
toolkit schema. The previous window has been torn down; fix the file and
save to reload.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- A field that conflicts with a base capability (e.g. ` + "`kind`" + `)
- A widget kind outside the toolkit vocabulary

## Example of a valid window file:
~~~cue
#MainWin: #Window & {
	title: "My App"
	children: [
		{kind: "label", text: "Hello"},
		{kind: "button", text: "OK"},
	]
}
~~~`,
	}

	noWindowFoundIssue = &Issue{
		id: NoWindowFoundId,
		mdMsg: `
# No window definition found!

The file evaluated cleanly but none of its top-level definitions is a
window. An entry point must descend from ` + "`#Window`" + ` or ` + "`#Dialog`" + `.

## Things you can try:
- Add a window definition:
~~~cue
#MainWin: #Window & {
	title: "My App"
}
~~~

- Check that the definition starts with ` + "`#`" + `; plain fields are
  never treated as entry points
- The reserved names ` + "`#Base`" + `, ` + "`#Window`" + `, ` + "`#Dialog`" + ` and
  ` + "`#Widget`" + ` are never entry points themselves`,
	}

	constructionFailedIssue = &Issue{
		id: ConstructionFailedId,
		mdMsg: `
# Could not construct the window!

A window definition was discovered but it is not concrete enough to
instantiate. Every field a window declares must resolve to a single value.

## Things you can try:
- Fill in required fields that have no default:
~~~cue
#MainWin: #Window & {
	title: "My App"   // a bare 'string' constraint is not enough
}
~~~

- Check the path named in the error above; it points at the first
  non-concrete field`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the cueview configuration file.

## Configuration file locations:
- Linux: ~/.config/cueview/config.cue
- macOS: ~/Library/Application Support/cueview/config.cue
- Windows: %APPDATA%\cueview\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/cueview/config.cue
~~~

## Example configuration:
~~~cue
ui: {
	color_scheme: "auto"
	verbose:      false
	inspector:    true
}
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid project manifest!

The cueview.toml in your project root could not be read.

## Example manifest:
~~~toml
name = "demo"
entry = "ui/app.cue"
watch = ["ui/**/*.cue"]
ignore = ["**/generated/**"]
use_gitignore = true

[provision]
script = """
./scripts/generate-fixtures.sh
"""
~~~

## Things you can try:
- Check the TOML syntax near the line named above
- Remove the manifest entirely; a bare directory with main.cue works`,
	}

	provisionFailedIssue = &Issue{
		id: ProvisionFailedId,
		mdMsg: `
# Provisioning failed!

The provision script in cueview.toml exited with an error, so the preview
did not start.

## Things you can try:
- Run the script by hand from the project root
- Check that every tool it calls is installed and on PATH
- Remove the [provision] section if the project no longer needs it`,
	}

	issues = map[Id]*Issue{
		watchSetupFailedIssue.Id():     watchSetupFailedIssue,
		windowFileNotFoundIssue.Id():   windowFileNotFoundIssue,
		windowFileParseErrorIssue.Id(): windowFileParseErrorIssue,
		noWindowFoundIssue.Id():        noWindowFoundIssue,
		constructionFailedIssue.Id():   constructionFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		manifestInvalidIssue.Id():      manifestInvalidIssue,
		provisionFailedIssue.Id():      provisionFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
