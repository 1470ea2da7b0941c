package domain

import (
	"regexp"
	"strings"
)

// separatorRuns matches runs of the characters PEP 503 treats as equivalent.
var separatorRuns = regexp.MustCompile(`[-_.]+`)

// NormalizeName canonicalizes a package name per PEP 503: lowercase, with
// runs of "-", "_" and "." collapsed to a single "-". The canonical form is
// the sole join key used across declared dependencies, resolver output and
// lock state.
func NormalizeName(name string) string {
	return strings.ToLower(separatorRuns.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// CanonicalName normalizes and interns a package name in one step.
func CanonicalName(name string) InternedString {
	return NewInternedString(NormalizeName(name))
}
