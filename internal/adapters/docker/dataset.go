package docker

import (
	"fmt"
	"os"

	"github.com/docker/docker/pkg/archive"
)

// DatasetExcludes are skipped at every depth when staging a dataset copy,
// so nested subdataset metadata is left out too.
var DatasetExcludes = []string{".git*", ".datalad*", "**/.git*", "**/.datalad*"}

// StageDataset copies src into a fresh temporary directory and returns its
// path. The caller removes it.
func StageDataset(src string) (string, error) {
	dst, err := os.MkdirTemp("", "bidsonym-smoke-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}

	tar, err := archive.TarWithOptions(src, &archive.TarOptions{ExcludePatterns: DatasetExcludes})
	if err != nil {
		os.RemoveAll(dst)
		return "", fmt.Errorf("failed to archive dataset: %w", err)
	}
	defer tar.Close()

	if err := archive.Untar(tar, dst, &archive.TarOptions{NoLchown: true}); err != nil {
		os.RemoveAll(dst)
		return "", fmt.Errorf("failed to stage dataset: %w", err)
	}
	return dst, nil
}
