package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bidsonym/imagegen/internal/core/domain"
	"github.com/bidsonym/imagegen/internal/core/ports"
)

// DatasetMount is where the staged dataset is bound inside the container.
const DatasetMount = "/input"

// SmokeCase is one invocation of the built image.
type SmokeCase struct {
	Name string
	Args []string
}

// SmokeCases returns the standard invocations, participant level first.
// deepdefacer and mridefacer are left out until they run on current nibabel.
func SmokeCases(participant string) []SmokeCase {
	var cases []SmokeCase
	for _, deid := range []string{"pydeface", "mri_deface", "quickshear"} {
		cases = append(cases, SmokeCase{
			Name: deid,
			Args: []string{"--participant_label", participant, "--deid", deid, "--deface_t2w",
				DatasetMount, "participant", "--verbose", "DEBUG"},
		})
	}
	cases = append(cases,
		SmokeCase{
			Name: "bet",
			Args: []string{"--participant_label", participant, "--deid", "pydeface", "--deface_t2w",
				"--brainextraction", "bet", "--bet_frac", "0.5",
				DatasetMount, "participant", "--verbose", "DEBUG"},
		},
		SmokeCase{
			Name: "nobrainer",
			Args: []string{"--participant_label", participant, "--deid", "pydeface", "--deface_t2w",
				"--brainextraction", "nobrainer",
				DatasetMount, "participant", "--verbose", "DEBUG"},
		},
		SmokeCase{
			Name: "group",
			Args: []string{"--deid", "pydeface", "--deface_t2w", "--verbose", "DEBUG",
				DatasetMount, "group"},
		},
	)
	return cases
}

// Smoke runs the image once per case against a fresh copy of Dataset.
type Smoke struct {
	Containers ports.ContainerService
	Image      string
	Dataset    string
	Out        io.Writer

	// Stage copies the dataset somewhere disposable; Remove discards it.
	Stage  func(src string) (string, error)
	Remove func(dir string) error
}

// Run executes cases in order and stops at the first non-zero exit.
func (s *Smoke) Run(ctx context.Context, cases []SmokeCase) error {
	remove := s.Remove
	if remove == nil {
		remove = os.RemoveAll
	}
	for _, c := range cases {
		if err := s.runCase(ctx, c, remove); err != nil {
			return err
		}
	}
	return nil
}

func (s *Smoke) runCase(ctx context.Context, c SmokeCase, remove func(string) error) error {
	dir, err := s.Stage(s.Dataset)
	if err != nil {
		return err
	}
	defer func() {
		if err := remove(dir); err != nil {
			slog.Warn("failed to remove staged dataset", "dir", dir, "error", err)
		}
	}()

	slog.Info("smoke run", "case", c.Name, "image", s.Image, "dataset", dir)
	res, err := s.Containers.RunContainer(ctx, domain.RunRequest{
		Image:  s.Image,
		Args:   c.Args,
		Mounts: []domain.Mount{{Source: dir, Target: DatasetMount}},
	})
	if err != nil {
		return fmt.Errorf("smoke %s: %w", c.Name, err)
	}
	if res.ExitCode != 0 {
		if s.Out != nil {
			fmt.Fprintln(s.Out, res.Logs)
		}
		return fmt.Errorf("smoke %s: %w", c.Name, &domain.CommandError{
			Name:     s.Image,
			Args:     c.Args,
			ExitCode: int(res.ExitCode),
		})
	}
	slog.Info("smoke passed", "case", c.Name)
	return nil
}
