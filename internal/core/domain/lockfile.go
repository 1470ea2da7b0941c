package domain

// LockedState is the persisted, fully resolved and attributed dependency
// set plus feature membership. It is the source of truth for install and
// update operations and is fully replaced, never patched, on each
// successful lock.
type LockedState struct {
	// Packages is ordered case-insensitively by canonical name.
	Packages []ResolvedPackage

	// Features maps feature names to the canonical names of the packages
	// they gate.
	Features map[string][]string
}

// Dependencies returns the locked packages for the requested categories:
// always the main set, plus the dev set when dev is true. Order is
// preserved.
func (s *LockedState) Dependencies(dev bool) []ResolvedPackage {
	if dev {
		return s.Packages
	}
	deps := make([]ResolvedPackage, 0, len(s.Packages))
	for _, pkg := range s.Packages {
		if pkg.Category == CategoryMain {
			deps = append(deps, pkg)
		}
	}
	return deps
}

// HasFeature reports whether the named feature exists in the locked state.
func (s *LockedState) HasFeature(name string) bool {
	_, ok := s.Features[NormalizeName(name)]
	return ok
}

// FeaturedPackages returns the canonical names gated by the requested
// features.
func (s *LockedState) FeaturedPackages(features []string) map[InternedString]struct{} {
	featured := make(map[InternedString]struct{})
	for _, feature := range features {
		for _, name := range s.Features[NormalizeName(feature)] {
			featured[CanonicalName(name)] = struct{}{}
		}
	}
	return featured
}
