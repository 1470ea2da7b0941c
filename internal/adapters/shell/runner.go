// Package shell provides the process-execution adapter.
package shell

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.CommandRunner using os/exec. Commands run
// synchronously with captured output; there is no shell interpretation.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes argv in dir and returns the captured standard output.
// A non-zero exit becomes an error carrying the exit code and the
// captured stderr.
func (r *Runner) Run(ctx context.Context, dir string, argv ...string) (string, error) {
	if len(argv) == 0 {
		return "", zerr.New("empty command")
	}

	//nolint:gosec // argv is constructed by the adapters, not user input
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Progress vertices capture the raw output stream when present.
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		cmd.Stdout = io.MultiWriter(&stdout, vertex.Stdout())
		cmd.Stderr = io.MultiWriter(&stderr, vertex.Stdout())
	}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		runErr := zerr.Wrap(err, "command failed")
		runErr = zerr.With(runErr, "command", strings.Join(argv, " "))
		runErr = zerr.With(runErr, "exit_code", exitCode)
		return "", zerr.With(runErr, "stderr", strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
