// SPDX-License-Identifier: MPL-2.0

package toolkit

import (
	"fmt"

	"cuelang.org/go/cue"

	"cueview-cli/pkg/cueutil"
)

// WindowSpec is the decoded form of a window definition. It exists only as
// a decode target; live state belongs to Window.
type WindowSpec struct {
	Kind     string       `json:"kind"`
	Title    string       `json:"title"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Modal    bool         `json:"modal,omitempty"`
	Children []WidgetSpec `json:"children"`
}

// WidgetSpec is the decoded form of a widget subtree.
type WidgetSpec struct {
	Kind     string       `json:"kind"`
	ID       string       `json:"id,omitempty"`
	Text     string       `json:"text"`
	Children []WidgetSpec `json:"children"`
}

// Instantiate constructs a live window from a discovered definition. This is
// where concreteness is enforced: discovery only checked capability, so a
// candidate with unfilled required fields fails here with a construction
// error naming the offending path.
//
// name is the definition name the value was discovered under and becomes the
// window's TypeName.
func Instantiate(name string, v cue.Value, sourcePath string) (*Window, error) {
	if err := v.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("construct %s: %w", name, cueutil.FormatError(err, sourcePath))
	}

	var spec WindowSpec
	if err := v.Decode(&spec); err != nil {
		return nil, fmt.Errorf("construct %s: %w", name, cueutil.FormatError(err, sourcePath))
	}

	w := &Window{
		typeName: name,
		kind:     spec.Kind,
		title:    spec.Title,
		modal:    spec.Modal,
		geometry: Geometry{Width: spec.Width, Height: spec.Height},
	}
	for _, child := range spec.Children {
		w.children = append(w.children, newWidget(child))
	}

	return w, nil
}
