package domain

import "strings"

// ResolvedPackage is a fully attributed member of the resolved dependency
// set: a matched candidate plus everything the lock file needs to know
// about it.
type ResolvedPackage struct {
	// Name is the canonical package name.
	Name InternedString

	// Version is the resolved release version, or a synthetic
	// "<vcs-kind>:<revision>" token for repository-sourced packages.
	Version string

	// Hashes is the sorted set of known content hashes. Repository-sourced
	// packages carry a single synthetic "sha1:<revision>" entry.
	Hashes []string

	// Category is the attributed dependency set.
	Category Category

	// Optional marks a feature-gated package.
	Optional bool

	// Python is the attributed interpreter restriction; ["*"] means
	// unrestricted.
	Python []string

	// Source locates the repository for VCS-sourced packages, with Ref
	// pinned to the resolved revision. Nil for released packages.
	Source *VCSSource
}

// IsVCS reports whether the package version is a synthetic revision token.
func (p ResolvedPackage) IsVCS() bool {
	return strings.HasPrefix(p.Version, VCSKindGit+":")
}

// InstalledVersion returns the version string as it appears in the
// installed-package listing: the release version, or the bare revision for
// repository-sourced packages.
func (p ResolvedPackage) InstalledVersion() string {
	if _, rev, ok := strings.Cut(p.Version, ":"); ok && p.IsVCS() {
		return rev
	}
	return p.Version
}

// PythonRestricted reports whether the package is restricted to particular
// interpreter versions.
func (p ResolvedPackage) PythonRestricted() bool {
	for _, expr := range p.Python {
		if expr == "*" {
			return false
		}
	}
	return len(p.Python) > 0
}

// MatchesPython reports whether the given interpreter version is allowed by
// the package's restriction. This mirrors the install-time check of the
// reference behavior: containment of the current version in a restriction
// expression, with "*" matching everything.
func (p ResolvedPackage) MatchesPython(version string) bool {
	if !p.PythonRestricted() {
		return true
	}
	for _, expr := range p.Python {
		if strings.Contains(expr, version) {
			return true
		}
	}
	return false
}
