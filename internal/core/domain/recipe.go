package domain

import (
	"fmt"
	"strings"
)

// Recipe is an ordered list of build steps plus the pinned generator that
// renders them.
type Recipe struct {
	Name      string `json:"name"`
	Generator string `json:"generator"`
	Format    string `json:"format"`
	Steps     []Step `json:"-"`
}

// Validate checks the recipe shape and every step in order.
func (r Recipe) Validate() error {
	if !pinned(r.Generator) {
		return fmt.Errorf("%w: generator image %q must be pinned to a tag", ErrInvalidRecipe, r.Generator)
	}
	if r.Format != "docker" {
		return fmt.Errorf("%w: unsupported output format %q", ErrInvalidRecipe, r.Format)
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidRecipe)
	}
	if _, ok := r.Steps[0].(BaseImage); !ok {
		return fmt.Errorf("%w: first step is %s, want base", ErrInvalidRecipe, r.Steps[0].Kind())
	}
	for i, step := range r.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("%w: step %d (%s): %w", ErrInvalidRecipe, i+1, step.Kind(), err)
		}
		if i > 0 {
			if _, ok := step.(BaseImage); ok {
				return fmt.Errorf("%w: step %d redefines the base image", ErrInvalidRecipe, i+1)
			}
		}
		if _, ok := step.(Launcher); ok && i != len(r.Steps)-1 {
			return fmt.Errorf("%w: launcher must be the last step", ErrInvalidRecipe)
		}
	}
	return nil
}

// Kinds lists the step kinds in recipe order.
func (r Recipe) Kinds() []string {
	kinds := make([]string, len(r.Steps))
	for i, step := range r.Steps {
		kinds[i] = step.Kind()
	}
	return kinds
}

func pinned(image string) bool {
	i := strings.LastIndex(image, ":")
	if i <= 0 || i == len(image)-1 {
		return false
	}
	tag := image[i+1:]
	return !strings.Contains(tag, "/") && tag != "latest"
}
