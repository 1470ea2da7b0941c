// Package git resolves repository refs to fully qualified revisions.
package git

import (
	"context"
	"os"
	"strings"

	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver implements ports.RevisionResolver with the git CLI. Every
// resolution runs in its own ephemeral workspace whose path is passed to
// each git invocation explicitly, so concurrent resolutions never share
// process state.
type Resolver struct {
	runner ports.CommandRunner
}

// NewResolver creates a new Resolver.
func NewResolver(runner ports.CommandRunner) *Resolver {
	return &Resolver{runner: runner}
}

// Pin clones the repository without materializing a build, checks out the
// requested ref and reads the resolved commit hash. The workspace is
// removed on every exit path, including checkout failures.
func (r *Resolver) Pin(ctx context.Context, src domain.VCSSource) (revision string, err error) {
	workspace, err := os.MkdirTemp("", "lockstep-vcs-")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create vcs workspace")
	}
	defer func() {
		if rmErr := os.RemoveAll(workspace); rmErr != nil && err == nil {
			err = zerr.Wrap(rmErr, "failed to remove vcs workspace")
		}
	}()

	if _, err = r.runner.Run(ctx, "", "git", "clone", "--no-checkout", cloneURL(src.URL), workspace); err != nil {
		return "", zerr.With(err, "repository", src.URL)
	}

	if _, err = r.runner.Run(ctx, workspace, "git", "checkout", src.Ref); err != nil {
		return "", zerr.With(zerr.With(err, "repository", src.URL), "ref", src.Ref)
	}

	out, err := r.runner.Run(ctx, workspace, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", zerr.With(err, "repository", src.URL)
	}

	revision = strings.TrimSpace(out)
	if revision == "" {
		return "", zerr.With(zerr.New("unreadable revision"), "repository", src.URL)
	}
	return revision, nil
}

// cloneURL strips the pip-style VCS scheme prefix ("git+https://..." to
// "https://...").
func cloneURL(url string) string {
	return strings.TrimPrefix(url, "git+")
}
