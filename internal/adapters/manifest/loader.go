// Package manifest loads the project manifest (lockstep.toml).
package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Filename is the manifest file name looked up in the working directory.
const Filename = "lockstep.toml"

// Loader implements ports.ManifestLoader over a TOML file.
type Loader struct {
	// Filename overrides the default manifest name; used by tests.
	Filename string
}

// NewLoader creates a Loader with the default filename.
func NewLoader() *Loader {
	return &Loader{Filename: Filename}
}

// Load reads the manifest from the given working directory. Every package
// and feature name is canonicalized here, once, at the boundary.
func (l *Loader) Load(cwd string) (*domain.Manifest, error) {
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is the project manifest
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest")
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}

	m := &domain.Manifest{
		Name:     doc.Package.Name,
		Version:  doc.Package.Version,
		Features: make(map[string][]string, len(doc.Features)),
	}

	if m.Dependencies, err = dependencies(doc.Dependencies, domain.CategoryMain); err != nil {
		return nil, err
	}
	if m.DevDependencies, err = dependencies(doc.DevDependencies, domain.CategoryDev); err != nil {
		return nil, err
	}

	for feature, packages := range doc.Features {
		canonical := make([]string, len(packages))
		for i, pkg := range packages {
			canonical[i] = domain.NormalizeName(pkg)
		}
		slices.Sort(canonical)
		m.Features[domain.NormalizeName(feature)] = canonical
	}

	return m, nil
}

// dependencies converts one manifest table into declared dependencies,
// sorted by canonical name so resolver input does not depend on TOML map
// iteration order.
func dependencies(specs map[string]dependencySpec, category domain.Category) ([]domain.Dependency, error) {
	deps := make([]domain.Dependency, 0, len(specs))
	for name, spec := range specs {
		dep := domain.Dependency{
			Name:        domain.CanonicalName(name),
			Constraint:  spec.Constraint,
			Category:    category,
			Optional:    spec.Optional,
			Python:      spec.Python,
			Prereleases: spec.Prereleases,
		}
		if spec.Git != "" {
			if spec.Ref == "" {
				return nil, zerr.With(zerr.New("git dependency needs a rev, branch or tag"), "package", name)
			}
			dep.VCS = &domain.VCSSource{Kind: domain.VCSKindGit, URL: spec.Git, Ref: spec.Ref}
		}
		deps = append(deps, dep)
	}

	slices.SortFunc(deps, func(a, b domain.Dependency) int {
		return strings.Compare(a.Name.String(), b.Name.String())
	})
	return deps, nil
}
