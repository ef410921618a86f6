// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("file not found")
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load window file"},
			want: "failed to load window file",
		},
		{
			name: "operation and resource",
			err:  &ActionableError{Operation: "load window file", Resource: "./main.cue"},
			want: "failed to load window file: ./main.cue",
		},
		{
			name: "everything",
			err:  &ActionableError{Operation: "load window file", Resource: "./main.cue", Cause: cause},
			want: "failed to load window file: ./main.cue: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	err := NewErrorContext().
		WithOperation("run provision script").
		Wrap(cause).
		BuildError()

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if _, ok := errors.AsType[*ActionableError](err); !ok {
		t.Error("BuildError() should return an *ActionableError")
	}
}

func TestFormatSuggestionsAndChain(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load window file").
		WithResource("./main.cue").
		WithSuggestions("Check the CUE syntax near the reported line", "Run with --verbose for the full chain").
		Wrap(errors.New("expression expected")).
		Build()

	quiet := err.Format(false)
	for _, want := range []string{
		"failed to load window file: ./main.cue: expression expected",
		"• Check the CUE syntax near the reported line",
		"• Run with --verbose for the full chain",
	} {
		if !strings.Contains(quiet, want) {
			t.Errorf("Format(false) missing %q\ngot:\n%s", want, quiet)
		}
	}
	if strings.Contains(quiet, "Error chain:") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "1. expression expected") {
		t.Errorf("Format(true) should include the numbered chain, got:\n%s", verbose)
	}
}

func TestFormatNestedChain(t *testing.T) {
	t.Parallel()

	inner := NewErrorContext().
		WithOperation("read manifest").
		Wrap(errors.New("permission denied")).
		Build()
	outer := NewErrorContext().
		WithOperation("resolve target").
		Wrap(inner).
		Build()

	got := outer.Format(true)
	for _, want := range []string{
		"1. failed to read manifest: permission denied",
		"2. permission denied",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format(true) missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestBuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().WithResource("some/path").Build(); err != nil {
		t.Errorf("Build() without operation = %v, want nil", err)
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

// A prepared context can be completed with different causes as errors occur.
func TestErrorContextReuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().
		WithOperation("load window file").
		WithResource("./main.cue")

	first := ctx.Wrap(errors.New("first save")).Build()
	second := ctx.Wrap(errors.New("second save")).Build()

	if first.Operation != second.Operation || first.Resource != second.Resource {
		t.Error("reused context should preserve operation and resource")
	}
	if first.Cause.Error() == second.Cause.Error() {
		t.Error("reused context should carry the latest cause")
	}
}
