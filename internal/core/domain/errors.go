package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownFeature is returned when a requested feature is not declared.
	ErrUnknownFeature = zerr.New("feature does not exist")

	// ErrMixedUpdateTargets is returned when an update names both explicit
	// packages and features; the two selections are mutually exclusive.
	ErrMixedUpdateTargets = zerr.New("cannot specify packages and features when updating")

	// ErrIncompatibleResolution is returned when a targeted and a full
	// resolution produce different versions for the same package.
	ErrIncompatibleResolution = zerr.New("incompatible versions resolved for package")

	// ErrMalformedSourceLink is returned when a resolver source link does not
	// match the <url>@<ref>#egg=<name> pattern.
	ErrMalformedSourceLink = zerr.New("malformed source link")

	// ErrUnknownCategory is returned when lock or manifest data carries a
	// category other than main or dev.
	ErrUnknownCategory = zerr.New("unknown dependency category")
)
