// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/lockstep/internal/core/domain"
)

// Resolver is the boundary to the external constraint solver. The core
// treats it as an opaque black box: it hands over requirement strings and
// receives a flat set of matched candidates, a reverse-dependency map and
// a content-hash table for the pinned partition. Resolver failures are
// fatal to the calling operation; the core never retries.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Resolve resolves the declared dependencies against the package
	// universe. Prerelease acceptance is enabled when any declared
	// dependency opts in.
	Resolve(ctx context.Context, deps []domain.Dependency, prereleases bool) (*domain.Resolution, error)
}
