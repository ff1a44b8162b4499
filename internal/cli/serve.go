package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bidsonym/imagegen/internal/adapters/http"
	"github.com/bidsonym/imagegen/internal/config"
	"github.com/bidsonym/imagegen/internal/metrics"
)

// Represents the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides serve.addr)." placeholder:"ADDR"`
}

// Executes the serve command. Blocks until the context is cancelled.
func (c *ServeCmd) Run(ctx context.Context, cfg config.Config) error {
	m := metrics.New()
	p, closeFn, err := newPipeline(cfg, m, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer closeFn()

	addr := cfg.Serve.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	a := fiber.New(fiber.Config{DisableStartupMessage: true})
	http.Routes(a, http.NewSpecHandler(p), m)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", addr)
		errCh <- a.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.ShutdownWithContext(shutdownCtx)
}
