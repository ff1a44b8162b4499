package docker

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/bidsonym/imagegen/internal/core/domain"
)

// Adapter implements ports.ContainerService using Docker SDK
type Adapter struct {
	cli *client.Client
}

// NewAdapter creates a new Docker adapter instance
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

// Close releases the engine connection.
func (a *Adapter) Close() error {
	return a.cli.Close()
}

// RunContainer creates a container from a local image, waits for it to exit
// and returns its exit code and combined logs. The container is removed
// afterwards.
func (a *Adapter) RunContainer(ctx context.Context, req domain.RunRequest) (domain.RunResult, error) {
	binds := make([]string, 0, len(req.Mounts))
	for _, m := range req.Mounts {
		mode := "rw"
		if m.ReadOnly {
			mode = "ro"
		}
		binds = append(binds, fmt.Sprintf("%s:%s:%s", m.Source, m.Target, mode))
	}

	// 1. Create Container
	resp, err := a.cli.ContainerCreate(ctx, &container.Config{
		Image: req.Image,
		Cmd:   req.Args,
	}, &container.HostConfig{Binds: binds}, nil, nil, "")
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("failed to create container: %w", err)
	}
	result := domain.RunResult{ID: resp.ID}
	defer a.remove(resp.ID)

	// 2. Start Container
	if err := a.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return result, fmt.Errorf("failed to start container: %w", err)
	}

	// 3. Wait for it to finish
	statusCh, errCh := a.cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return result, fmt.Errorf("failed to wait for container: %w", err)
	case status := <-statusCh:
		if status.Error != nil {
			return result, fmt.Errorf("failed to wait for container: %s", status.Error.Message)
		}
		result.ExitCode = status.StatusCode
	}

	// 4. Collect logs
	logs, err := a.cli.ContainerLogs(ctx, resp.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return result, fmt.Errorf("failed to read container logs: %w", err)
	}
	defer logs.Close()

	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, logs); err != nil {
		return result, fmt.Errorf("failed to read container logs: %w", err)
	}
	result.Logs = buf.String()
	return result, nil
}

func (a *Adapter) remove(id string) {
	// Cleanup must survive a cancelled run context.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = a.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
}
