package neurodocker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bidsonym/imagegen/internal/core/domain"
	"github.com/bidsonym/imagegen/internal/core/ports"
)

// Generator implements ports.SpecGenerator by running the neurodocker image
// through the container engine.
type Generator struct {
	runner ports.ProcessRunner
	engine string
	stderr io.Writer
}

// NewGenerator creates a generator that invokes engine (e.g. "docker") via
// runner. Diagnostics from neurodocker are copied to stderr.
func NewGenerator(runner ports.ProcessRunner, engine string, stderr io.Writer) *Generator {
	if stderr == nil {
		stderr = io.Discard
	}
	return &Generator{runner: runner, engine: engine, stderr: stderr}
}

// Args returns the full engine argument list used to render recipe.
func (g *Generator) Args(recipe domain.Recipe) ([]string, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	flags, err := Flags(recipe)
	if err != nil {
		return nil, err
	}
	args := []string{"run", "--rm", recipe.Generator, "generate", recipe.Format, "--yes"}
	return append(args, flags...), nil
}

// Generate renders recipe and returns the document neurodocker wrote to
// stdout. Nothing is returned if the tool fails.
func (g *Generator) Generate(ctx context.Context, recipe domain.Recipe) ([]byte, error) {
	args, err := g.Args(recipe)
	if err != nil {
		return nil, err
	}

	slog.Debug("rendering build spec", "recipe", recipe.Name, "generator", recipe.Generator, "steps", len(recipe.Steps))

	var out bytes.Buffer
	if err := g.runner.Run(ctx, domain.Command{
		Name:   g.engine,
		Args:   args,
		Stdout: &out,
		Stderr: g.stderr,
	}); err != nil {
		return nil, fmt.Errorf("failed to generate build spec: %w", err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("failed to generate build spec: %s produced no output", recipe.Generator)
	}
	return out.Bytes(), nil
}
