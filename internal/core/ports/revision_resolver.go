package ports

import (
	"context"

	"go.trai.ch/lockstep/internal/core/domain"
)

// RevisionResolver resolves a repository ref to a fully qualified revision.
// Implementations work in an ephemeral workspace that is removed on every
// exit path, including failures.
//
//go:generate go run go.uber.org/mock/mockgen -source=revision_resolver.go -destination=mocks/mock_revision_resolver.go -package=mocks
type RevisionResolver interface {
	// Pin fetches the repository, checks out the requested ref and returns
	// the resolved commit hash. Checkout failures propagate unchanged; no
	// retry is attempted.
	Pin(ctx context.Context, src domain.VCSSource) (string, error)
}
