// Package app implements the application layer for lockstep: the install,
// update and lock operations over the core engine and the adapter ports.
package app

import (
	"context"
	"fmt"

	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/lockstep/internal/engine/attribution"
	"go.trai.ch/lockstep/internal/engine/planner"
	"go.trai.ch/zerr"
)

// App represents the main application logic. All operations are
// synchronous; package operations execute strictly one at a time.
type App struct {
	manifests ports.ManifestLoader
	resolver  ports.Resolver
	engine    *attribution.Engine
	lock      ports.LockStore
	packages  ports.PackageManager
	logger    ports.Logger
	telemetry ports.Telemetry
}

// New creates a new App instance.
func New(
	manifests ports.ManifestLoader,
	resolver ports.Resolver,
	engine *attribution.Engine,
	lock ports.LockStore,
	packages ports.PackageManager,
	log ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		manifests: manifests,
		resolver:  resolver,
		engine:    engine,
		lock:      lock,
		packages:  packages,
		logger:    log,
		telemetry: telemetry,
	}
}

// InstallOptions configures the Install operation.
type InstallOptions struct {
	// Features selects optional packages to install.
	Features []string

	// Dev includes the development dependency set.
	Dev bool
}

// Install brings the environment in line with the locked state, locking
// first when no lock file exists yet. Already-satisfied, unfeatured and
// interpreter-restricted packages are skipped.
func (a *App) Install(ctx context.Context, opts InstallOptions) error {
	m, err := a.manifests.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	if !a.lock.Exists() {
		for _, feature := range opts.Features {
			if !m.HasFeature(feature) {
				return zerr.With(domain.ErrUnknownFeature, "feature", feature)
			}
		}
		if err := a.lockManifest(ctx, m, opts.Dev); err != nil {
			return err
		}
	}

	state, err := a.lock.Read()
	if err != nil {
		return zerr.Wrap(err, "failed to read lock file")
	}
	for _, feature := range opts.Features {
		if !state.HasFeature(feature) {
			return zerr.With(domain.ErrUnknownFeature, "feature", feature)
		}
	}

	a.logger.Info("Installing dependencies")

	deps := state.Dependencies(opts.Dev)
	featured := state.FeaturedPackages(opts.Features)

	installed, err := a.packages.Installed(ctx)
	if err != nil {
		return err
	}

	interpreter, err := a.packages.InterpreterVersion(ctx)
	if err != nil {
		return err
	}

	skipped := 0
	for _, pkg := range deps {
		switch {
		case pkg.Optional && !isFeatured(pkg, featured):
			skipped++
			continue
		case installed[pkg.Name] == pkg.InstalledVersion():
			a.logger.Info(fmt.Sprintf(" - Skipping %s (%s already installed)", pkg.Name, pkg.InstalledVersion()))
			skipped++
			continue
		case !pkg.MatchesPython(interpreter):
			a.logger.Info(fmt.Sprintf(" - Skipping %s (requires Python %v, current is %s)", pkg.Name, pkg.Python, interpreter))
			skipped++
			continue
		}

		a.logger.Info(fmt.Sprintf(" - Installing %s (%s)", pkg.Name, pkg.Version))
		if err := a.installOne(ctx, pkg, pkg.IsVCS()); err != nil {
			return err
		}
	}

	if skipped == len(deps) {
		a.logger.Info("All dependencies already installed")
	}
	return nil
}

// UpdateOptions configures the Update operation.
type UpdateOptions struct {
	// Packages restricts the update to the named packages. Mutually
	// exclusive with Features.
	Packages []string

	// Features selects optional packages to keep.
	Features []string

	// Dev includes the development dependency set.
	Dev bool

	// DryRun prints the planned actions without executing them or touching
	// the lock file.
	DryRun bool
}

// Update re-resolves the declared dependencies, reconciles the result
// against the current lock, executes the resulting actions and replaces
// the lock file. Removals are only planned for full updates; a targeted
// update never uninstalls.
func (a *App) Update(ctx context.Context, opts UpdateOptions) error {
	if len(opts.Packages) > 0 && len(opts.Features) > 0 {
		return domain.ErrMixedUpdateTargets
	}

	m, err := a.manifests.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}
	for _, feature := range opts.Features {
		if !m.HasFeature(feature) {
			return zerr.With(domain.ErrUnknownFeature, "feature", feature)
		}
	}

	suffix := ""
	if opts.DryRun {
		suffix = " (dry run)"
	}
	a.logger.Info("Updating dependencies" + suffix)

	var current []domain.ResolvedPackage
	if a.lock.Exists() {
		state, err := a.lock.Read()
		if err != nil {
			return zerr.Wrap(err, "failed to read lock file")
		}
		current = state.Dependencies(opts.Dev)
	}

	declared := declaredForUpdate(m, opts.Dev, opts.Features)

	var resolved []domain.ResolvedPackage
	if len(opts.Packages) > 0 {
		resolved, err = a.resolveTargeted(ctx, declared, opts.Packages)
	} else {
		resolved, err = a.resolve(ctx, declared)
	}
	if err != nil {
		return err
	}

	includeRemovals := len(opts.Packages) == 0 && len(opts.Features) == 0
	actions := planner.Plan(resolved, current, includeRemovals)
	if len(actions) == 0 {
		a.logger.Info("Dependencies already up-to-date")
		return nil
	}

	s := planner.Summarize(actions)
	a.logger.Info(fmt.Sprintf("Package operations: %d installs, %d updates, %d removals",
		s.Installs, s.Updates, s.Removals))

	for _, action := range actions {
		a.logger.Info(" - " + describeAction(action))
		if opts.DryRun {
			continue
		}
		if err := a.perform(ctx, action); err != nil {
			return err
		}
	}

	if opts.DryRun {
		return nil
	}

	a.logger.Info("Writing lock file")
	state := &domain.LockedState{Packages: resolved, Features: m.CanonicalFeatures()}
	if err := a.lock.Write(state); err != nil {
		return zerr.Wrap(err, "failed to write lock file")
	}
	return nil
}

// LockOptions configures the Lock operation.
type LockOptions struct {
	// Dev includes the development dependency set.
	Dev bool
}

// Lock resolves the declared dependencies and writes the lock file without
// touching the environment.
func (a *App) Lock(ctx context.Context, opts LockOptions) error {
	m, err := a.manifests.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}
	return a.lockManifest(ctx, m, opts.Dev)
}

// lockManifest resolves the manifest's declared dependencies and persists
// the locked state.
func (a *App) lockManifest(ctx context.Context, m *domain.Manifest, dev bool) error {
	a.logger.Info("Locking dependencies")

	resolved, err := a.resolve(ctx, m.DeclaredDependencies(dev))
	if err != nil {
		return err
	}

	a.logger.Info("Writing lock file")
	state := &domain.LockedState{Packages: resolved, Features: m.CanonicalFeatures()}
	if err := a.lock.Write(state); err != nil {
		return zerr.Wrap(err, "failed to write lock file")
	}
	return nil
}

// resolve runs the external resolver over the declared dependencies and
// attributes the result. Prerelease acceptance is enabled when any
// declared dependency opts in.
func (a *App) resolve(ctx context.Context, declared []domain.Dependency) ([]domain.ResolvedPackage, error) {
	prereleases := false
	for _, dep := range declared {
		if dep.Prereleases {
			prereleases = true
			break
		}
	}

	vctx, vertex := a.telemetry.Record(ctx, "Resolving dependencies")
	resolution, err := a.resolver.Resolve(vctx, declared, prereleases)
	if err != nil {
		vertex.Complete(err)
		return nil, err
	}

	resolved, err := a.engine.Attribute(vctx, resolution, declared)
	vertex.Complete(err)
	return resolved, err
}

// resolveTargeted runs the cross-check double resolution for a targeted
// update: once over only the requested declared dependencies, once over
// all of them, merged with the targeted side winning.
func (a *App) resolveTargeted(
	ctx context.Context,
	declared []domain.Dependency,
	packages []string,
) ([]domain.ResolvedPackage, error) {
	requested := make(map[domain.InternedString]struct{}, len(packages))
	for _, name := range packages {
		requested[domain.CanonicalName(name)] = struct{}{}
	}

	targeted := make([]domain.Dependency, 0, len(packages))
	for _, dep := range declared {
		if _, ok := requested[dep.Name]; ok {
			targeted = append(targeted, dep)
		}
	}

	targetedResolved, err := a.resolve(ctx, targeted)
	if err != nil {
		return nil, err
	}
	allResolved, err := a.resolve(ctx, declared)
	if err != nil {
		return nil, err
	}

	return attribution.CrossCheck(allResolved, targetedResolved)
}

// perform executes one reconciliation action through the package manager.
func (a *App) perform(ctx context.Context, action domain.Action) error {
	switch action.Kind {
	case domain.ActionRemove:
		vctx, vertex := a.telemetry.Record(ctx, describeAction(action))
		err := a.packages.Remove(vctx, action.To)
		vertex.Complete(err)
		return err
	case domain.ActionUpdate:
		return a.installOne(ctx, action.To, true)
	default:
		return a.installOne(ctx, action.To, action.To.IsVCS())
	}
}

// installOne installs a single package under a progress vertex.
func (a *App) installOne(ctx context.Context, pkg domain.ResolvedPackage, upgrade bool) error {
	vctx, vertex := a.telemetry.Record(ctx, fmt.Sprintf("Installing %s (%s)", pkg.Name, pkg.Version))
	err := a.packages.Install(vctx, pkg, upgrade)
	vertex.Complete(err)
	return err
}

// declaredForUpdate filters the declared dependencies for an update:
// optional dependencies are dropped unless their owning feature was
// requested.
func declaredForUpdate(m *domain.Manifest, dev bool, features []string) []domain.Dependency {
	featured := m.FeaturedPackages(features)

	declared := make([]domain.Dependency, 0)
	for _, dep := range m.DeclaredDependencies(dev) {
		if dep.Optional {
			if _, ok := featured[dep.Name]; !ok {
				continue
			}
		}
		declared = append(declared, dep)
	}
	return declared
}

// describeAction renders a user-facing line for an action.
func describeAction(action domain.Action) string {
	if action.Kind == domain.ActionUpdate && action.From != nil {
		return fmt.Sprintf("%s %s (%s -> %s)",
			action.Describe(), action.To.Name, action.From.Version, action.To.Version)
	}
	return fmt.Sprintf("%s %s (%s)", action.Describe(), action.To.Name, action.To.Version)
}

// isFeatured reports whether an optional package was selected by a
// requested feature.
func isFeatured(pkg domain.ResolvedPackage, featured map[domain.InternedString]struct{}) bool {
	_, ok := featured[pkg.Name]
	return ok
}
