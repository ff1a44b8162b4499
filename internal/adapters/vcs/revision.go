package vcs

import (
	"errors"
	"log/slog"

	"github.com/go-git/go-git/v5"
)

const (
	LabelRevision = "org.opencontainers.image.revision"
	LabelSource   = "org.opencontainers.image.source"
)

// Labels returns OCI image labels describing the checkout at dir. A tree
// that is not a git checkout yields no labels.
func Labels(dir string) map[string]string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			slog.Warn("skipping revision labels", "dir", dir, "error", err)
		}
		return nil
	}

	labels := map[string]string{}
	if head, err := repo.Head(); err == nil {
		labels[LabelRevision] = head.Hash().String()
	}
	if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		labels[LabelSource] = remote.Config().URLs[0]
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}
