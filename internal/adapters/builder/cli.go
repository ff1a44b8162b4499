package builder

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/bidsonym/imagegen/internal/core/domain"
	"github.com/bidsonym/imagegen/internal/core/ports"
)

// CLIAdapter implements ports.BuilderService by shelling out to the engine's
// build subcommand.
type CLIAdapter struct {
	runner ports.ProcessRunner
	engine string
	stdout io.Writer
	stderr io.Writer
}

// NewCLIAdapter creates a builder that runs `<engine> build`.
func NewCLIAdapter(runner ports.ProcessRunner, engine string, stdout, stderr io.Writer) *CLIAdapter {
	return &CLIAdapter{runner: runner, engine: engine, stdout: stdout, stderr: stderr}
}

// Args returns the engine arguments used for req.
func (a *CLIAdapter) Args(req domain.BuildRequest) []string {
	args := []string{"build", "-t", req.Tag, "-f", req.SpecPath}
	keys := make([]string, 0, len(req.Labels))
	for k := range req.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--label", k+"="+req.Labels[k])
	}
	return append(args, req.ContextDir)
}

// BuildImage runs the build and returns the tag once the engine exits 0.
func (a *CLIAdapter) BuildImage(ctx context.Context, req domain.BuildRequest) (string, error) {
	if err := a.runner.Run(ctx, domain.Command{
		Name:   a.engine,
		Args:   a.Args(req),
		Stdout: a.stdout,
		Stderr: a.stderr,
	}); err != nil {
		return "", fmt.Errorf("failed to build image: %w", err)
	}
	return req.Tag, nil
}
