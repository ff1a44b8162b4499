package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/patternmatcher/ignorefile"
	"github.com/moby/term"

	"github.com/bidsonym/imagegen/internal/core/domain"
)

// Adapter implements ports.BuilderService using the Docker Engine API.
type Adapter struct {
	cli *client.Client
	out io.Writer
}

// NewBuilderAdapter connects to the engine described by the DOCKER_*
// environment. Build progress is written to out.
func NewBuilderAdapter(out io.Writer) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, out: out}, nil
}

// Close releases the engine connection.
func (a *Adapter) Close() error {
	return a.cli.Close()
}

// BuildImage sends the context directory to the engine and builds the spec
// document found inside it.
func (a *Adapter) BuildImage(ctx context.Context, req domain.BuildRequest) (string, error) {
	// 1. Resolve the spec relative to the context
	dockerfile, err := specInContext(req.ContextDir, req.SpecPath)
	if err != nil {
		return "", err
	}

	excludes, err := readIgnore(req.ContextDir)
	if err != nil {
		return "", err
	}

	// 2. Create Build Context (Tar)
	tar, err := archive.TarWithOptions(req.ContextDir, &archive.TarOptions{ExcludePatterns: excludes})
	if err != nil {
		return "", fmt.Errorf("failed to create build context: %w", err)
	}
	defer tar.Close()

	// 3. Build Docker Image
	slog.Info("building image", "tag", req.Tag, "context", req.ContextDir, "dockerfile", dockerfile)
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:        []string{req.Tag},
		Dockerfile:  dockerfile,
		Labels:      req.Labels,
		Remove:      true, // Remove intermediate containers
		ForceRemove: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	// The build is only finished once the stream is drained; an errorDetail
	// message in it comes back as *jsonmessage.JSONError.
	fd, isTerm := term.GetFdInfo(a.out)
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, a.out, fd, isTerm, nil); err != nil {
		return "", fmt.Errorf("failed to build image: %w", err)
	}

	return req.Tag, nil
}

func specInContext(contextDir, specPath string) (string, error) {
	absCtx, err := filepath.Abs(contextDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve build context: %w", err)
	}
	absSpec, err := filepath.Abs(specPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve build spec: %w", err)
	}
	rel, err := filepath.Rel(absCtx, absSpec)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("build spec %s is outside the context %s", specPath, contextDir)
	}
	return filepath.ToSlash(rel), nil
}

func readIgnore(contextDir string) ([]string, error) {
	f, err := os.Open(filepath.Join(contextDir, ".dockerignore"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open .dockerignore: %w", err)
	}
	defer f.Close()
	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read .dockerignore: %w", err)
	}
	return patterns, nil
}
