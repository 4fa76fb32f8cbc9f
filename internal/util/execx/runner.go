// Package execx wraps external command execution behind a small interface
// so provisioning steps can be tested without touching the host.
package execx

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes a command, streaming its output to the configured writers.
	// The underlying tool's diagnostics are passed through verbatim.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its trimmed standard output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the host via os/exec.
type ExecRunner struct {
	// Env holds extra environment entries appended to the process environment
	// (e.g. DEBIAN_FRONTEND=noninteractive for unattended package installs).
	Env []string

	// Stdout and Stderr receive command output. Defaults to the process
	// streams when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns an ExecRunner wired to the process stdio.
func NewRunner(env ...string) *ExecRunner {
	return &ExecRunner{
		Env:    env,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stderr = r.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
