package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes an external tool and reports failure with its output.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// RunCommand is the default CommandRunner. Combined output is attached to the
// error so tool diagnostics reach the failure report.
func RunCommand(ctx context.Context, name string, args ...string) error {
	return RunCommandWithEnv(ctx, nil, name, args...)
}

// RunCommandWithEnv behaves like RunCommand with env appended to the
// current process environment.
func RunCommandWithEnv(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
