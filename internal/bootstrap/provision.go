// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// RunProvision executes the manifest's provisioning script with root as the
// working directory. The script runs in the embedded shell interpreter, so
// provisioning behaves identically across platforms and needs no /bin/sh.
//
// A nonzero exit is returned as an error carrying the status; an empty
// script returns nil immediately.
func RunProvision(ctx context.Context, root string, p Provision, stdout, stderr io.Writer) error {
	if strings.TrimSpace(p.Script) == "" {
		return nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(p.Script), "provision")
	if err != nil {
		return fmt.Errorf("provision script syntax error: %w", err)
	}

	env := os.Environ()
	for _, k := range sortedKeys(p.Env) {
		env = append(env, k+"="+p.Env[k])
	}

	runner, err := interp.New(
		interp.Dir(root),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("provision interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return fmt.Errorf("provision script exited with status %d", uint8(status))
		}
		return fmt.Errorf("provision script: %w", err)
	}
	return nil
}

// sortedKeys keeps the injected environment deterministic so provisioning
// failures reproduce.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
