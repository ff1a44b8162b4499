package cli

import (
	"context"
	"os"

	"github.com/bidsonym/imagegen/internal/adapters/docker"
	"github.com/bidsonym/imagegen/internal/app"
)

// Represents the 'smoke' command.
type SmokeCmd struct {
	Dataset     string `required:"" type:"existingdir" help:"BIDS dataset to copy into each run."`
	Image       string `default:"${image}" help:"Image to run."`
	Participant string `default:"02" help:"Participant label for participant level runs."`
}

// Executes the smoke command.
func (c *SmokeCmd) Run(ctx context.Context) error {
	containers, err := docker.NewAdapter()
	if err != nil {
		return err
	}
	defer containers.Close()

	s := &app.Smoke{
		Containers: containers,
		Image:      c.Image,
		Dataset:    c.Dataset,
		Out:        os.Stdout,
		Stage:      docker.StageDataset,
	}
	return s.Run(ctx, app.SmokeCases(c.Participant))
}
