package http

import (
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bidsonym/imagegen/internal/app"
	"github.com/bidsonym/imagegen/internal/metrics"
)

type SpecHandler struct {
	pipeline *app.Pipeline

	// Builds share one spec file on disk.
	mu sync.Mutex
}

func NewSpecHandler(pipeline *app.Pipeline) *SpecHandler {
	return &SpecHandler{pipeline: pipeline}
}

// Routes mounts the handler and the metrics endpoint on a.
func Routes(a *fiber.App, h *SpecHandler, m *metrics.Metrics) {
	v1 := a.Group("/api").Group("/v1")
	v1.Get("/spec", h.GetSpec)
	v1.Get("/recipe", h.GetRecipe)
	v1.Post("/builds", h.CreateBuild)

	if reg := m.Registry(); reg != nil {
		a.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
}

// GetSpec renders the document without touching the file on disk.
func (h *SpecHandler) GetSpec(c *fiber.Ctx) error {
	doc, err := h.pipeline.Render(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	c.Set("Content-Type", "text/plain; charset=utf-8")
	return c.Send(doc)
}

type RecipeResponse struct {
	Name      string   `json:"name"`
	Generator string   `json:"generator"`
	Format    string   `json:"format"`
	Steps     []string `json:"steps"`
}

func (h *SpecHandler) GetRecipe(c *fiber.Ctx) error {
	r := h.pipeline.Recipe
	return c.JSON(RecipeResponse{
		Name:      r.Name,
		Generator: r.Generator,
		Format:    r.Format,
		Steps:     r.Kinds(),
	})
}

// CreateBuild regenerates the document and builds the image from it.
// Note: blocks for the whole build.
func (h *SpecHandler) CreateBuild(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	log := slog.With("build_id", id)

	if err := h.pipeline.Generate(c.Context()); err != nil {
		log.Error("generation failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"id":    id,
			"error": "Generation failed: " + err.Error(),
		})
	}

	image, err := h.pipeline.Build(c.Context())
	if err != nil {
		log.Error("build failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"id":    id,
			"error": "Build failed: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    id,
		"image": image,
	})
}
