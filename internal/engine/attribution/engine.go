// Package attribution turns raw resolver output into the fully attributed
// resolved package set: every transitively pulled-in package gets a
// category, an optionality flag, an interpreter restriction and its
// content hashes, derived from the declared dependencies and the
// reverse-dependency map.
package attribution

import (
	"context"
	"slices"
	"strings"

	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

// unsafePackages are build-tooling packages that must never be installed
// as ordinary dependencies. Matched candidates with these names are
// excluded unconditionally.
var unsafePackages = map[string]struct{}{
	"setuptools": {},
	"distribute": {},
	"pip":        {},
	"wheel":      {},
}

// Engine attributes resolved matches. It needs a RevisionResolver to pin
// repository-sourced matches, whose "version" is a commit rather than a
// release.
type Engine struct {
	revisions ports.RevisionResolver
}

// New creates a new attribution Engine.
func New(revisions ports.RevisionResolver) *Engine {
	return &Engine{revisions: revisions}
}

// Attribute computes the resolved package set for one resolver invocation.
// The result is sorted case-insensitively by canonical name; that ordering
// is load-bearing for deterministic lock output and diff stability.
func (e *Engine) Attribute(
	ctx context.Context,
	resolution *domain.Resolution,
	declared []domain.Dependency,
) ([]domain.ResolvedPackage, error) {
	byName := make(map[domain.InternedString]domain.Dependency, len(declared))
	for _, dep := range declared {
		byName[dep.Name] = dep
	}

	packages := make([]domain.ResolvedPackage, 0, len(resolution.Matches))
	for _, match := range resolution.Matches {
		if _, unsafe := unsafePackages[match.Name.String()]; unsafe {
			continue
		}

		version, hashes, source, err := e.versionAndHashes(ctx, match, resolution)
		if err != nil {
			return nil, err
		}

		pkg := domain.ResolvedPackage{
			Name:    match.Name,
			Version: version,
			Hashes:  hashes,
			Python:  pythonRestriction(match.Name, resolution, byName),
			Source:  source,
		}
		pkg.Category, pkg.Optional = category(match.Name, resolution, byName)

		packages = append(packages, pkg)
	}

	slices.SortFunc(packages, func(a, b domain.ResolvedPackage) int {
		return strings.Compare(strings.ToLower(a.Name.String()), strings.ToLower(b.Name.String()))
	})
	return packages, nil
}

// versionAndHashes derives the lockable version and content hashes for a
// match. Pinned matches use the release version and the known hash set;
// editable matches are pinned to a repository revision with a synthetic
// hash.
func (e *Engine) versionAndHashes(
	ctx context.Context,
	match domain.Match,
	resolution *domain.Resolution,
) (string, []string, *domain.VCSSource, error) {
	if match.Pinned() {
		hashes := slices.Clone(resolution.Hashes[match.Name])
		slices.Sort(hashes)
		return match.PinnedVersion(), hashes, nil, nil
	}

	src, _, err := domain.ParseSourceLink(match.Link)
	if err != nil {
		return "", nil, nil, err
	}

	revision, err := e.revisions.Pin(ctx, src)
	if err != nil {
		return "", nil, nil, zerr.With(err, "package", match.Name.String())
	}

	pinned := domain.VCSSource{Kind: src.Kind, URL: src.URL, Ref: revision}
	return domain.VCSVersion(src.Kind, revision), []string{domain.VCSHash(revision)}, &pinned, nil
}

// category attributes a category and optionality to a resolved package.
// A package directly named by a declared dependency inherits both from the
// declaration; otherwise the reverse-dependency graph is walked towards
// declared ancestors. A package with no declared ancestor at all (typically
// a VCS-only chain) defaults to main, non-optional: the conservative choice
// is to never silently drop a package that is actually needed.
func category(
	name domain.InternedString,
	resolution *domain.Resolution,
	declared map[domain.InternedString]domain.Dependency,
) (domain.Category, bool) {
	if dep, ok := declared[name]; ok {
		return dep.Category, dep.Optional
	}

	visited := make(map[domain.InternedString]struct{})
	if cat, opt, found := categoryFromParents(name, resolution, declared, visited); found {
		return cat, opt
	}
	return domain.CategoryMain, false
}

// categoryFromParents walks the reverse-dependency map looking for declared
// ancestors. Main short-circuits: a package required by any main dependency
// is main even when it is also reachable through a dev chain. The visited
// set guarantees termination on cyclic reverse-dependency maps; a cycle
// with no declared anchor yields "not found" rather than an error.
func categoryFromParents(
	name domain.InternedString,
	resolution *domain.Resolution,
	declared map[domain.InternedString]domain.Dependency,
	visited map[domain.InternedString]struct{},
) (domain.Category, bool, bool) {
	if _, seen := visited[name]; seen {
		return "", false, false
	}
	visited[name] = struct{}{}

	var (
		devOptional bool
		devFound    bool
	)
	parents := sortedParents(resolution.Parents(name))

	for _, parent := range parents {
		dep, ok := declared[parent]
		if !ok {
			continue
		}
		if dep.Category == domain.CategoryMain {
			return domain.CategoryMain, dep.Optional, true
		}
		if !devFound {
			devOptional = dep.Optional
			devFound = true
		}
	}

	for _, parent := range parents {
		if _, ok := declared[parent]; ok {
			continue
		}
		cat, opt, found := categoryFromParents(parent, resolution, declared, visited)
		if !found {
			continue
		}
		if cat == domain.CategoryMain {
			return domain.CategoryMain, opt, true
		}
		if !devFound {
			devOptional = opt
			devFound = true
		}
	}

	if devFound {
		return domain.CategoryDev, devOptional, true
	}
	return "", false, false
}

// pythonRestriction computes the interpreter restriction for a resolved
// package: the candidate's own declaration when it is declared, otherwise
// the union of every declared ancestor's restriction. A wildcard from any
// ancestor overrides the whole set, as does the absence of any restriction.
func pythonRestriction(
	name domain.InternedString,
	resolution *domain.Resolution,
	declared map[domain.InternedString]domain.Dependency,
) []string {
	var union map[string]struct{}
	if dep, ok := declared[name]; ok {
		union = make(map[string]struct{}, len(dep.Python))
		for _, expr := range dep.Python {
			union[expr] = struct{}{}
		}
	} else {
		union = make(map[string]struct{})
		visited := make(map[domain.InternedString]struct{})
		collectAncestorPythons(name, resolution, declared, visited, union)
	}

	if _, wildcard := union["*"]; wildcard || len(union) == 0 {
		return []string{"*"}
	}

	exprs := make([]string, 0, len(union))
	for expr := range union {
		exprs = append(exprs, expr)
	}
	slices.Sort(exprs)
	return exprs
}

// collectAncestorPythons gathers interpreter restrictions from declared
// ancestors. The walk stops at a declared ancestor: its own declaration is
// authoritative for everything below it.
func collectAncestorPythons(
	name domain.InternedString,
	resolution *domain.Resolution,
	declared map[domain.InternedString]domain.Dependency,
	visited map[domain.InternedString]struct{},
	union map[string]struct{},
) {
	if _, seen := visited[name]; seen {
		return
	}
	visited[name] = struct{}{}

	for _, parent := range sortedParents(resolution.Parents(name)) {
		if dep, ok := declared[parent]; ok {
			if len(dep.Python) == 0 {
				union["*"] = struct{}{}
				continue
			}
			for _, expr := range dep.Python {
				union[expr] = struct{}{}
			}
			continue
		}
		collectAncestorPythons(parent, resolution, declared, visited, union)
	}
}

// sortedParents returns the parent set in deterministic name order, so
// attribution does not depend on map iteration order.
func sortedParents(parents domain.ParentSet) []domain.InternedString {
	names := make([]domain.InternedString, 0, len(parents))
	for parent := range parents {
		names = append(names, parent)
	}
	slices.SortFunc(names, func(a, b domain.InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return names
}

// CrossCheck merges a full resolution with a targeted one: for every
// package present in both, the targeted entry wins so explicitly requested
// packages stay fresh. Two genuinely different resolved versions for the
// same name are an incompatibility and abort the merge.
func CrossCheck(all, targeted []domain.ResolvedPackage) ([]domain.ResolvedPackage, error) {
	targetedByName := make(map[domain.InternedString]domain.ResolvedPackage, len(targeted))
	for _, pkg := range targeted {
		targetedByName[pkg.Name] = pkg
	}

	merged := make([]domain.ResolvedPackage, 0, len(all))
	for _, pkg := range all {
		fresh, ok := targetedByName[pkg.Name]
		if !ok {
			merged = append(merged, pkg)
			continue
		}
		if fresh.Version != pkg.Version {
			err := zerr.With(domain.ErrIncompatibleResolution, "package", pkg.Name.String())
			err = zerr.With(err, "version", pkg.Version)
			return nil, zerr.With(err, "targeted_version", fresh.Version)
		}
		merged = append(merged, fresh)
	}
	return merged, nil
}
