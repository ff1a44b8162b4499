package ports

import (
	"context"

	"github.com/bidsonym/imagegen/internal/core/domain"
)

// BuilderService defines operations for building container images from a
// generated spec document.
type BuilderService interface {
	// BuildImage builds req.SpecPath against req.ContextDir and tags the
	// result with req.Tag. It returns the image reference or an error.
	BuildImage(ctx context.Context, req domain.BuildRequest) (string, error)
}

// SpecGenerator renders a recipe into a build specification document.
type SpecGenerator interface {
	Generate(ctx context.Context, recipe domain.Recipe) ([]byte, error)
}
