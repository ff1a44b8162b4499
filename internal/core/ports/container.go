package ports

import (
	"context"

	"github.com/bidsonym/imagegen/internal/core/domain"
)

// ContainerService runs containers to completion. Backed by Docker today,
// but nothing above the adapter depends on that.
type ContainerService interface {
	RunContainer(ctx context.Context, req domain.RunRequest) (domain.RunResult, error)
}

// ProcessRunner starts an external program and waits for it to exit.
// A non-zero exit is reported as *domain.CommandError.
type ProcessRunner interface {
	Run(ctx context.Context, cmd domain.Command) error
}

// DocumentWriter persists a generated document, replacing any prior content.
type DocumentWriter interface {
	WriteDocument(path string, content []byte) error
}
