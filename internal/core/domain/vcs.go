package domain

import (
	"regexp"

	"go.trai.ch/zerr"
)

// VCSSource locates a repository-sourced dependency.
type VCSSource struct {
	// Kind is the version control system, currently always "git".
	Kind string

	// URL is the repository URL, including the VCS scheme prefix
	// (e.g. "git+https://github.com/sdispater/pendulum.git").
	URL string

	// Ref is the requested branch, tag or short revision.
	Ref string
}

// VCSKindGit is the only supported VCS kind.
const VCSKindGit = "git"

// sourceLink matches pip-style source links of the form
// <url>@<ref>#egg=<name>. The ref match is lazy so URLs containing "@"
// (ssh remotes) keep the last segment as the ref.
var sourceLink = regexp.MustCompile(`^(?P<url>.+)@(?P<ref>.+?)#egg=(?P<name>.+)$`)

// ParseSourceLink extracts the repository URL, ref and canonical package
// name from a resolver source link. A link that does not match the pattern
// is a fatal resolution error.
func ParseSourceLink(link string) (VCSSource, InternedString, error) {
	m := sourceLink.FindStringSubmatch(link)
	if m == nil {
		return VCSSource{}, InternedString{}, zerr.With(ErrMalformedSourceLink, "link", link)
	}

	src := VCSSource{
		Kind: VCSKindGit,
		URL:  m[sourceLink.SubexpIndex("url")],
		Ref:  m[sourceLink.SubexpIndex("ref")],
	}
	return src, CanonicalName(m[sourceLink.SubexpIndex("name")]), nil
}

// VCSVersion renders the synthetic version token recorded for a
// repository-sourced package, e.g. "git:3f5c2a...".
func VCSVersion(kind, revision string) string {
	return kind + ":" + revision
}

// VCSHash renders the synthetic content hash for a repository-sourced
// package. The revision is the only content identity a checkout has.
func VCSHash(revision string) string {
	return "sha1:" + revision
}
