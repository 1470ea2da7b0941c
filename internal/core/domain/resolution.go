package domain

import "strings"

// Match is a single candidate returned by the external resolver.
type Match struct {
	// Name is the canonical requirement name.
	Name InternedString

	// Specifier is the matched release specifier (e.g. "==2.19.1").
	// Empty for editable matches.
	Specifier string

	// Link is the source link for editable/VCS matches
	// (<url>@<ref>#egg=<name>).
	Link string

	// Editable marks a VCS-sourced match without a fixed release version.
	Editable bool
}

// Pinned reports whether the match names an exact release version. Only
// pinned matches are hashable.
func (m Match) Pinned() bool {
	return !m.Editable && strings.HasPrefix(m.Specifier, "==") &&
		!strings.Contains(m.Specifier, ",") && !strings.Contains(m.Specifier, "*")
}

// PinnedVersion returns the exact version of a pinned match, with the
// specifier operator stripped.
func (m Match) PinnedVersion() string {
	return strings.TrimPrefix(m.Specifier, "==")
}

// ParentSet is a set of canonical parent package names.
type ParentSet map[InternedString]struct{}

// Resolution is the complete output of one resolver invocation: the flat
// set of matched candidates, the reverse-dependency map used for
// attribution, and the content-hash table for the pinned partition.
type Resolution struct {
	Matches     []Match
	ReverseDeps map[InternedString]ParentSet
	Hashes      map[InternedString][]string
}

// Parents returns the set of direct parents for the given canonical name.
// The returned set is shared, never mutated by callers.
func (r *Resolution) Parents(name InternedString) ParentSet {
	return r.ReverseDeps[name]
}
