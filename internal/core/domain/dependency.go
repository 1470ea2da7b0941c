package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Category partitions dependencies into the runtime set and the
// development-only set. It is a closed type: the planner and the
// attribution engine rely on there being exactly two variants.
type Category string

const (
	// CategoryMain marks a runtime dependency.
	CategoryMain Category = "main"

	// CategoryDev marks a development-only dependency.
	CategoryDev Category = "dev"
)

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown categories are
// rejected so a hand-edited lock file cannot introduce a third variant.
func (c *Category) UnmarshalText(text []byte) error {
	switch Category(text) {
	case CategoryMain, CategoryDev:
		*c = Category(text)
		return nil
	default:
		return zerr.With(ErrUnknownCategory, "category", string(text))
	}
}

// Dependency is a project-authored requirement as declared in the manifest.
// The name is canonicalized once, at the manifest boundary, and never
// re-normalized afterwards.
type Dependency struct {
	// Name is the canonical package name.
	Name InternedString

	// Constraint is the version constraint (range expression or exact pin,
	// e.g. "==1.0.4" or ">=2.1,<3.0"). Empty for VCS dependencies.
	Constraint string

	// Category is the dependency set this declaration belongs to.
	Category Category

	// Optional marks a feature-gated dependency that is only installed when
	// its owning feature is requested.
	Optional bool

	// Python restricts the interpreter versions this dependency applies to.
	// Empty means unrestricted.
	Python []string

	// VCS is set for repository-sourced dependencies.
	VCS *VCSSource

	// Prereleases allows prerelease versions to satisfy the constraint.
	Prereleases bool
}

// IsVCS reports whether the dependency is sourced from a repository rather
// than a released version.
func (d Dependency) IsVCS() bool {
	return d.VCS != nil
}

// Requirement renders the requirement string handed to the resolver:
// "name<constraint>" for released packages, "<url>@<ref>#egg=<name>" for
// VCS dependencies.
func (d Dependency) Requirement() string {
	if d.VCS != nil {
		return d.VCS.URL + "@" + d.VCS.Ref + "#egg=" + d.Name.String()
	}
	return d.Name.String() + d.Constraint
}

// NormalizedConstraint returns the constraint with an exact-pin operator
// stripped, which is the form recorded in the lock file.
func (d Dependency) NormalizedConstraint() string {
	return strings.ReplaceAll(d.Constraint, "==", "")
}
