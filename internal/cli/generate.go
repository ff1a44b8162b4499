package cli

import (
	"context"
	"os"

	"github.com/bidsonym/imagegen/internal/config"
)

// Represents the default command.
type GenerateCmd struct {
	Target string   `arg:"" optional:"" help:"Pass \"local\" to build the image after generating."`
	Rest   []string `arg:"" optional:"" hidden:""`
}

// Executes the generate command.
//
// Writes the Dockerfile, then builds it when Target selects a local build.
// The first failing external command ends the run with its exit status.
func (c *GenerateCmd) Run(ctx context.Context, cfg config.Config) error {
	p, closeFn, err := newPipeline(cfg, nil, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer closeFn()

	return p.Run(ctx, c.args())
}

// Only the first word is inspected; anything after it is ignored.
func (c *GenerateCmd) args() []string {
	if c.Target == "" {
		return nil
	}
	return append([]string{c.Target}, c.Rest...)
}
