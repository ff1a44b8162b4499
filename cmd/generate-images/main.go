package main

import (
	"log/slog"
	"os"

	"github.com/bidsonym/imagegen/internal/cli"
	"github.com/bidsonym/imagegen/internal/core/domain"
)

// Exits with the status of the first failing external command, or 1 for
// any other error.
func main() {
	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(domain.ExitCode(err))
	}
}
