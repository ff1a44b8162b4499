package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/bidsonym/imagegen/internal/core/domain"
	"github.com/bidsonym/imagegen/internal/core/ports"
	"github.com/bidsonym/imagegen/internal/metrics"
)

// Messages printed by the dispatcher.
const (
	MsgWillBuild = "Image(s) will be build locally."
	MsgWontBuild = "Image(s) won't be build locally."
	MsgBuilt     = "Image(s) were build locally as %s."
)

// Pipeline generates the build spec document and then dispatches on the
// invocation argument. Any failure stops it; nothing is retried.
type Pipeline struct {
	Recipe    domain.Recipe
	Generator ports.SpecGenerator
	Writer    ports.DocumentWriter
	Builder   ports.BuilderService

	SpecPath   string
	ContextDir string
	Tag        string
	Compare    CompareMode

	// Labels, when set, supplies extra image labels for the context dir.
	Labels  func(dir string) map[string]string
	Out     io.Writer
	Metrics *metrics.Metrics
}

// Run renders and writes the document, then builds locally if args ask
// for it.
func (p *Pipeline) Run(ctx context.Context, args []string) error {
	if err := p.Generate(ctx); err != nil {
		return err
	}
	_, err := p.Dispatch(ctx, args)
	return err
}

// Render returns the document for the pipeline recipe without writing it.
func (p *Pipeline) Render(ctx context.Context) ([]byte, error) {
	start := time.Now()
	doc, err := p.Generator.Generate(ctx, p.Recipe)
	p.Metrics.ObserveGeneration(err, time.Since(start))
	return doc, err
}

// Generate renders the document and overwrites SpecPath with it.
func (p *Pipeline) Generate(ctx context.Context) error {
	doc, err := p.Render(ctx)
	if err != nil {
		return err
	}
	if err := p.Writer.WriteDocument(p.SpecPath, doc); err != nil {
		return err
	}
	slog.Info("build spec written", "path", p.SpecPath, "bytes", len(doc))
	return nil
}

// Dispatch builds the image when args select a local build. It reports
// whether a build ran.
func (p *Pipeline) Dispatch(ctx context.Context, args []string) (bool, error) {
	if !ShouldBuild(p.Compare, args) {
		p.println(MsgWontBuild)
		return false, nil
	}

	p.println(MsgWillBuild)
	image, err := p.Build(ctx)
	if err != nil {
		return true, err
	}
	p.println(fmt.Sprintf(MsgBuilt, image))
	return true, nil
}

// Build runs the image build against the already written document.
func (p *Pipeline) Build(ctx context.Context) (string, error) {
	req := domain.BuildRequest{
		ContextDir: p.ContextDir,
		SpecPath:   p.SpecPath,
		Tag:        p.Tag,
	}
	if p.Labels != nil {
		if labels := p.Labels(p.ContextDir); len(labels) > 0 {
			req.Labels = maps.Clone(labels)
		}
	}

	start := time.Now()
	image, err := p.Builder.BuildImage(ctx, req)
	p.Metrics.ObserveBuild(err, time.Since(start))
	if err != nil {
		return "", err
	}
	slog.Info("image built", "image", image, "duration", time.Since(start).Round(time.Millisecond))
	return image, nil
}

func (p *Pipeline) println(msg string) {
	if p.Out != nil {
		fmt.Fprintln(p.Out, msg)
	}
}
