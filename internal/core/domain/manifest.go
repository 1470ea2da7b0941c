package domain

// Manifest is the declared shape of a project: its direct dependencies and
// the features gating the optional ones. It is owned by the caller and
// read-only to the core.
type Manifest struct {
	// Name is the project name.
	Name string

	// Version is the project version.
	Version string

	// Dependencies are the declared main dependencies.
	Dependencies []Dependency

	// DevDependencies are the declared development dependencies.
	DevDependencies []Dependency

	// Features maps feature names to the canonical names of the optional
	// packages they enable.
	Features map[string][]string
}

// DeclaredDependencies returns the declared dependencies for the requested
// categories: always main, plus dev when dev is true. The returned slice is
// fresh; the manifest itself is never mutated.
func (m *Manifest) DeclaredDependencies(dev bool) []Dependency {
	deps := make([]Dependency, 0, len(m.Dependencies)+len(m.DevDependencies))
	deps = append(deps, m.Dependencies...)
	if dev {
		deps = append(deps, m.DevDependencies...)
	}
	return deps
}

// HasFeature reports whether the named feature is declared.
func (m *Manifest) HasFeature(name string) bool {
	_, ok := m.Features[NormalizeName(name)]
	return ok
}

// FeaturedPackages returns the canonical names gated by the requested
// features.
func (m *Manifest) FeaturedPackages(features []string) map[InternedString]struct{} {
	featured := make(map[InternedString]struct{})
	for _, feature := range features {
		for _, name := range m.Features[NormalizeName(feature)] {
			featured[CanonicalName(name)] = struct{}{}
		}
	}
	return featured
}

// CanonicalFeatures returns the feature map with every feature name and
// package name canonicalized, in the form recorded in the lock file.
func (m *Manifest) CanonicalFeatures() map[string][]string {
	features := make(map[string][]string, len(m.Features))
	for name, packages := range m.Features {
		canonical := make([]string, len(packages))
		for i, pkg := range packages {
			canonical[i] = NormalizeName(pkg)
		}
		features[NormalizeName(name)] = canonical
	}
	return features
}
