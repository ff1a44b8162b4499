package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidsonym/imagegen/internal/core/domain"
)

type fakeRunner struct {
	calls []domain.Command
	err   error
}

func (f *fakeRunner) Run(_ context.Context, cmd domain.Command) error {
	f.calls = append(f.calls, cmd)
	return f.err
}

func TestCLIArgs(t *testing.T) {
	a := NewCLIAdapter(&fakeRunner{}, "docker", nil, nil)
	args := a.Args(domain.BuildRequest{
		ContextDir: ".",
		SpecPath:   "Dockerfile",
		Tag:        "bidsonym",
		Labels:     map[string]string{"b": "2", "a": "1"},
	})
	assert.Equal(t, []string{"build", "-t", "bidsonym", "-f", "Dockerfile", "--label", "a=1", "--label", "b=2", "."}, args)
}

func TestCLIBuildImage(t *testing.T) {
	runner := &fakeRunner{}
	a := NewCLIAdapter(runner, "podman", nil, nil)

	image, err := a.BuildImage(context.Background(), domain.BuildRequest{ContextDir: ".", SpecPath: "Dockerfile", Tag: "bidsonym"})
	require.NoError(t, err)
	assert.Equal(t, "bidsonym", image)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "podman", runner.calls[0].Name)
}

func TestCLIBuildImageFailure(t *testing.T) {
	runner := &fakeRunner{err: &domain.CommandError{Name: "docker", ExitCode: 1}}
	a := NewCLIAdapter(runner, "docker", nil, nil)

	_, err := a.BuildImage(context.Background(), domain.BuildRequest{ContextDir: ".", SpecPath: "Dockerfile", Tag: "bidsonym"})
	var cmdErr *domain.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode)
}

func TestSpecInContext(t *testing.T) {
	dir := t.TempDir()

	rel, err := specInContext(dir, filepath.Join(dir, "docker", "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, "docker/Dockerfile", rel)

	_, err = specInContext(filepath.Join(dir, "ctx"), filepath.Join(dir, "Dockerfile"))
	assert.ErrorContains(t, err, "outside the context")
}

func TestReadIgnore(t *testing.T) {
	dir := t.TempDir()

	patterns, err := readIgnore(dir)
	require.NoError(t, err)
	assert.Nil(t, patterns)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dockerignore"), []byte("# comment\n.git\n*.pyc\n"), 0o644))
	patterns, err = readIgnore(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{".git", "*.pyc"}, patterns)
}
