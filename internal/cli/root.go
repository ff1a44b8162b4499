package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/bidsonym/imagegen/internal"
	"github.com/bidsonym/imagegen/internal/adapters/builder"
	"github.com/bidsonym/imagegen/internal/adapters/fs"
	"github.com/bidsonym/imagegen/internal/adapters/neurodocker"
	"github.com/bidsonym/imagegen/internal/adapters/process"
	"github.com/bidsonym/imagegen/internal/adapters/vcs"
	"github.com/bidsonym/imagegen/internal/app"
	"github.com/bidsonym/imagegen/internal/config"
	"github.com/bidsonym/imagegen/internal/core/domain"
	"github.com/bidsonym/imagegen/internal/core/ports"
	"github.com/bidsonym/imagegen/internal/metrics"
)

// Represents the root command.
var RootCmd struct {
	Config  string `short:"c" help:"Configuration file path." default:"imagegen.yaml" placeholder:"PATH"`
	Quiet   bool   `short:"q" help:"Only log warnings and errors."`
	Verbose bool   `short:"v" help:"Enable debug logging."`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Write the Dockerfile and optionally build it locally."`
	Serve    ServeCmd    `cmd:"" help:"Serve the rendered Dockerfile and build endpoint over HTTP."`
	Smoke    SmokeCmd    `cmd:"" help:"Run the built image against a BIDS dataset."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Generates the BIDSonym image Dockerfile with neurodocker."),
		kong.UsageOnError(),
		kong.Vars{
			"image": domain.ImageTag,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	// Flags apply to records emitted while the config itself loads.
	configureLogger(config.Default().LogLevel)
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}
	configureLogger(cfg.LogLevel)

	kongCtx.Bind(cfg)
	return kongCtx.Run()
}

func configureLogger(name string) {
	level := logLevel(name, RootCmd.Verbose, RootCmd.Quiet)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Returns the configured level unless -v or -q overrides it.
func logLevel(name string, verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelWarn
	}
	level, err := config.ParseLevel(name)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Wires the pipeline for cfg. The returned func releases engine clients.
func newPipeline(cfg config.Config, m *metrics.Metrics, stdout, stderr io.Writer) (*app.Pipeline, func(), error) {
	runner := process.NewRunner()
	compare, err := app.ParseCompareMode(cfg.Compare)
	if err != nil {
		return nil, nil, err
	}

	var (
		b       ports.BuilderService
		closeFn = func() {}
	)
	switch cfg.Builder {
	case "api":
		api, err := builder.NewBuilderAdapter(stdout)
		if err != nil {
			return nil, nil, err
		}
		b, closeFn = api, func() { _ = api.Close() }
	case "cli":
		b = builder.NewCLIAdapter(runner, cfg.Engine, stdout, stderr)
	default:
		return nil, nil, fmt.Errorf("unknown builder %q", cfg.Builder)
	}

	p := &app.Pipeline{
		Recipe:     domain.BIDSonym(),
		Generator:  neurodocker.NewGenerator(runner, cfg.Engine, stderr),
		Writer:     fs.NewWriter(),
		Builder:    b,
		SpecPath:   cfg.Output,
		ContextDir: cfg.Context,
		Tag:        domain.ImageTag,
		Compare:    compare,
		Out:        stdout,
		Metrics:    m,
	}
	if cfg.RevisionLabels {
		p.Labels = vcs.Labels
	}
	return p, closeFn, nil
}
