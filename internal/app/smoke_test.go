package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidsonym/imagegen/internal/core/domain"
)

type fakeContainers struct {
	reqs    []domain.RunRequest
	results []domain.RunResult
	err     error
}

func (f *fakeContainers) RunContainer(_ context.Context, req domain.RunRequest) (domain.RunResult, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return domain.RunResult{}, f.err
	}
	if len(f.results) == 0 {
		return domain.RunResult{}, nil
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res, nil
}

type stager struct {
	staged  []string
	removed []string
}

func (s *stager) stage(src string) (string, error) {
	dir := src + "-copy-" + string(rune('a'+len(s.staged)))
	s.staged = append(s.staged, dir)
	return dir, nil
}

func (s *stager) remove(dir string) error {
	s.removed = append(s.removed, dir)
	return nil
}

func TestSmokeCases(t *testing.T) {
	cases := SmokeCases("02")
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"pydeface", "mri_deface", "quickshear", "bet", "nobrainer", "group"}, names)
	assert.Equal(t, []string{"--deid", "pydeface", "--deface_t2w", "--verbose", "DEBUG", "/input", "group"}, cases[5].Args)
	assert.Contains(t, cases[3].Args, "--bet_frac")
}

func TestSmokeRunsEveryCaseOnFreshCopy(t *testing.T) {
	containers := &fakeContainers{}
	st := &stager{}
	s := &Smoke{Containers: containers, Image: "bidsonym", Dataset: "/data", Stage: st.stage, Remove: st.remove}

	require.NoError(t, s.Run(context.Background(), SmokeCases("01")))

	require.Len(t, containers.reqs, 6)
	assert.Equal(t, st.staged, st.removed)
	for i, req := range containers.reqs {
		assert.Equal(t, "bidsonym", req.Image)
		assert.Equal(t, []domain.Mount{{Source: st.staged[i], Target: DatasetMount}}, req.Mounts)
	}
}

func TestSmokeStopsAtFirstFailure(t *testing.T) {
	containers := &fakeContainers{results: []domain.RunResult{{ExitCode: 0}, {ExitCode: 1, Logs: "Traceback"}}}
	st := &stager{}
	out := &bytes.Buffer{}
	s := &Smoke{Containers: containers, Image: "bidsonym", Dataset: "/data", Out: out, Stage: st.stage, Remove: st.remove}

	err := s.Run(context.Background(), SmokeCases("01"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smoke mri_deface")
	assert.Equal(t, 1, domain.ExitCode(err))
	assert.Len(t, containers.reqs, 2)
	assert.Contains(t, out.String(), "Traceback")
	assert.Len(t, st.removed, 2)
}

func TestSmokeEngineError(t *testing.T) {
	containers := &fakeContainers{err: errors.New("daemon unavailable")}
	st := &stager{}
	s := &Smoke{Containers: containers, Image: "bidsonym", Dataset: "/data", Stage: st.stage, Remove: st.remove}

	err := s.Run(context.Background(), SmokeCases("01"))

	assert.ErrorContains(t, err, "daemon unavailable")
	assert.Len(t, st.removed, 1)
}
