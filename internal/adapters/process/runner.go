package process

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"

	"github.com/bidsonym/imagegen/internal/core/domain"
)

// Runner implements ports.ProcessRunner with os/exec.
type Runner struct{}

// NewRunner creates a process runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts cmd and blocks until it exits. The child inherits no stdin.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	slog.Debug("exec", "name", cmd.Name, "args", cmd.Args, "dir", cmd.Dir)

	err := c.Run()
	if err == nil {
		return nil
	}

	cmdErr := &domain.CommandError{Name: cmd.Name, Args: cmd.Args, ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	return cmdErr
}
