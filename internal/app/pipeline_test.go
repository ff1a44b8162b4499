package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidsonym/imagegen/internal/core/domain"
	"github.com/bidsonym/imagegen/internal/metrics"
)

// journal records the order in which collaborators are called.
type journal struct {
	events []string
}

func (j *journal) add(e string) { j.events = append(j.events, e) }

type fakeGenerator struct {
	j   *journal
	doc []byte
	err error
}

func (g *fakeGenerator) Generate(_ context.Context, _ domain.Recipe) ([]byte, error) {
	g.j.add("generate")
	if g.err != nil {
		return nil, g.err
	}
	return g.doc, nil
}

type fakeWriter struct {
	j     *journal
	files map[string][]byte
}

func (w *fakeWriter) WriteDocument(path string, content []byte) error {
	w.j.add("write " + path)
	if w.files == nil {
		w.files = map[string][]byte{}
	}
	w.files[path] = append([]byte(nil), content...)
	return nil
}

type fakeBuilder struct {
	j    *journal
	reqs []domain.BuildRequest
	err  error
}

func (b *fakeBuilder) BuildImage(_ context.Context, req domain.BuildRequest) (string, error) {
	b.j.add("build " + req.Tag)
	b.reqs = append(b.reqs, req)
	if b.err != nil {
		return "", b.err
	}
	return req.Tag, nil
}

type fixture struct {
	j       *journal
	gen     *fakeGenerator
	writer  *fakeWriter
	builder *fakeBuilder
	out     *bytes.Buffer
	p       *Pipeline
}

func newFixture(mode CompareMode) *fixture {
	j := &journal{}
	f := &fixture{
		j:       j,
		gen:     &fakeGenerator{j: j, doc: []byte("FROM neurodebian:bullseye-non-free\n")},
		writer:  &fakeWriter{j: j},
		builder: &fakeBuilder{j: j},
		out:     &bytes.Buffer{},
	}
	f.p = &Pipeline{
		Recipe:     domain.BIDSonym(),
		Generator:  f.gen,
		Writer:     f.writer,
		Builder:    f.builder,
		SpecPath:   "Dockerfile",
		ContextDir: ".",
		Tag:        domain.ImageTag,
		Compare:    mode,
		Out:        f.out,
		Metrics:    metrics.New(),
	}
	return f
}

func TestRunWithoutArgumentsDoesNotBuild(t *testing.T) {
	f := newFixture(CompareArgument)

	require.NoError(t, f.p.Run(context.Background(), nil))

	assert.Equal(t, []string{"generate", "write Dockerfile"}, f.j.events)
	assert.Equal(t, MsgWontBuild+"\n", f.out.String())
	assert.Empty(t, f.builder.reqs)
}

func TestRunLocalBuildsAfterGenerating(t *testing.T) {
	f := newFixture(CompareArgument)

	require.NoError(t, f.p.Run(context.Background(), []string{"local"}))

	assert.Equal(t, []string{"generate", "write Dockerfile", "build bidsonym"}, f.j.events)
	assert.Equal(t, MsgWillBuild+"\nImage(s) were build locally as bidsonym.\n", f.out.String())
	require.Len(t, f.builder.reqs, 1)
	assert.Equal(t, domain.BuildRequest{ContextDir: ".", SpecPath: "Dockerfile", Tag: "bidsonym"}, f.builder.reqs[0])
}

// The historical script compared an unexpanded token, so "local" never
// triggered a build. Literal mode keeps that behaviour on purpose.
func TestRunLocalWithLiteralCompareDoesNotBuild(t *testing.T) {
	f := newFixture(CompareLiteral)

	require.NoError(t, f.p.Run(context.Background(), []string{"local"}))

	assert.Equal(t, MsgWontBuild+"\n", f.out.String())
	assert.Empty(t, f.builder.reqs)
}

func TestRunOtherArgumentDoesNotBuild(t *testing.T) {
	f := newFixture(CompareArgument)

	require.NoError(t, f.p.Run(context.Background(), []string{"remote"}))

	assert.Equal(t, MsgWontBuild+"\n", f.out.String())
}

func TestRunGenerationFailureStopsBeforeDispatch(t *testing.T) {
	f := newFixture(CompareArgument)
	f.gen.err = &domain.CommandError{Name: "docker", ExitCode: 125}

	err := f.p.Run(context.Background(), []string{"local"})

	assert.Equal(t, 125, domain.ExitCode(err))
	assert.Equal(t, []string{"generate"}, f.j.events)
	assert.Empty(t, f.out.String())
	assert.Empty(t, f.writer.files)
}

func TestRunBuildFailurePropagatesAfterAnnouncing(t *testing.T) {
	f := newFixture(CompareArgument)
	f.builder.err = &domain.CommandError{Name: "docker", ExitCode: 2}

	err := f.p.Run(context.Background(), []string{"local"})

	assert.Equal(t, 2, domain.ExitCode(err))
	assert.Equal(t, MsgWillBuild+"\n", f.out.String())
	assert.NotContains(t, f.out.String(), "were build")
}

func TestRunWritesIdenticalDocumentsAcrossRuns(t *testing.T) {
	f := newFixture(CompareArgument)

	require.NoError(t, f.p.Run(context.Background(), nil))
	first := f.writer.files["Dockerfile"]
	require.NoError(t, f.p.Run(context.Background(), nil))

	assert.Equal(t, first, f.writer.files["Dockerfile"])
}

func TestBuildAddsLabels(t *testing.T) {
	f := newFixture(CompareArgument)
	f.p.Labels = func(dir string) map[string]string {
		return map[string]string{"org.opencontainers.image.revision": "abc123", "dir": dir}
	}

	_, err := f.p.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"org.opencontainers.image.revision": "abc123", "dir": "."}, f.builder.reqs[0].Labels)
}

func TestBuildWithoutLabelsLeavesThemNil(t *testing.T) {
	f := newFixture(CompareArgument)
	f.p.Labels = func(string) map[string]string { return nil }

	_, err := f.p.Build(context.Background())
	require.NoError(t, err)

	assert.Nil(t, f.builder.reqs[0].Labels)
}

func TestRenderDoesNotWrite(t *testing.T) {
	f := newFixture(CompareArgument)

	doc, err := f.p.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, f.gen.doc, doc)
	assert.Empty(t, f.writer.files)
}

func TestRunWithoutMetrics(t *testing.T) {
	f := newFixture(CompareArgument)
	f.p.Metrics = nil

	assert.NoError(t, f.p.Run(context.Background(), []string{"local"}))
}

func TestRunNonCommandErrorExitsOne(t *testing.T) {
	f := newFixture(CompareArgument)
	f.gen.err = errors.New("no engine")

	assert.Equal(t, 1, domain.ExitCode(f.p.Run(context.Background(), nil)))
}
