package ports

import "go.trai.ch/lockstep/internal/core/domain"

// ManifestLoader loads the project manifest from a working directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest and returns the declared dependency model,
	// with every package and feature name canonicalized.
	Load(cwd string) (*domain.Manifest, error)
}
