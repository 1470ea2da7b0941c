package ports

import (
	"context"

	"go.trai.ch/lockstep/internal/core/domain"
)

// PackageManager is the boundary to the environment's package installer.
// All operations are blocking and strictly sequential; the core never runs
// two package operations concurrently.
//
//go:generate go run go.uber.org/mock/mockgen -source=package_manager.go -destination=mocks/mock_package_manager.go -package=mocks
type PackageManager interface {
	// Install installs one package. Upgrade forces an in-place upgrade,
	// which repository-sourced packages always need.
	Install(ctx context.Context, pkg domain.ResolvedPackage, upgrade bool) error

	// Remove uninstalls one package.
	Remove(ctx context.Context, pkg domain.ResolvedPackage) error

	// Installed lists the installed packages as canonical name to version.
	// Repository-sourced entries report their checked-out revision;
	// malformed editable entries are skipped, not treated as installed.
	Installed(ctx context.Context) (map[domain.InternedString]string, error)

	// InterpreterVersion reports the environment's interpreter version
	// (major.minor), used to honor interpreter restrictions at install time.
	InterpreterVersion(ctx context.Context) (string, error)
}
