package cli

import (
	"fmt"

	"github.com/bidsonym/imagegen/internal"
	"github.com/bidsonym/imagegen/internal/core/domain"
)

// Represents the 'version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run() error {
	fmt.Printf("%s %s (neurodocker %s)\n", internal.Name, internal.Version, domain.GeneratorImage)
	return nil
}
