// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunProvisionEmptyScript(t *testing.T) {
	t.Parallel()

	err := RunProvision(context.Background(), t.TempDir(), Provision{}, nil, nil)
	if err != nil {
		t.Errorf("RunProvision() with empty script = %v, want nil", err)
	}
}

func TestRunProvisionRunsInRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var stdout, stderr bytes.Buffer

	p := Provision{Script: `echo "generated: true" > generated.cue`}
	if err := RunProvision(context.Background(), root, p, &stdout, &stderr); err != nil {
		t.Fatalf("RunProvision() error = %v (stderr: %s)", err, stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(root, "generated.cue"))
	if err != nil {
		t.Fatalf("script output missing: %v", err)
	}
	if !strings.Contains(string(data), "generated: true") {
		t.Errorf("generated.cue = %q", data)
	}
}

func TestRunProvisionInjectsEnv(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	p := Provision{
		Script: `echo "$PREVIEW_MODE"`,
		Env:    map[string]string{"PREVIEW_MODE": "live"},
	}
	if err := RunProvision(context.Background(), t.TempDir(), p, &stdout, &stdout); err != nil {
		t.Fatalf("RunProvision() error = %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "live" {
		t.Errorf("script saw PREVIEW_MODE=%q, want %q", got, "live")
	}
}

func TestRunProvisionReportsExitStatus(t *testing.T) {
	t.Parallel()

	p := Provision{Script: `exit 3`}
	err := RunProvision(context.Background(), t.TempDir(), p, nil, nil)
	if err == nil {
		t.Fatal("RunProvision() should fail on nonzero exit")
	}
	if !strings.Contains(err.Error(), "status 3") {
		t.Errorf("error = %q, want exit status 3", err)
	}
}

func TestRunProvisionSyntaxError(t *testing.T) {
	t.Parallel()

	p := Provision{Script: `if [ ; then fi`}
	err := RunProvision(context.Background(), t.TempDir(), p, nil, nil)
	if err == nil {
		t.Fatal("RunProvision() should fail on a malformed script")
	}
	if !strings.Contains(err.Error(), "syntax") {
		t.Errorf("error = %q, want syntax error", err)
	}
}
