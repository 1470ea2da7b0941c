package domain

// ActionKind discriminates the reconciliation action variants.
type ActionKind string

const (
	// ActionInstall introduces a package absent from the current state.
	ActionInstall ActionKind = "install"

	// ActionUpdate replaces a package version already present.
	ActionUpdate ActionKind = "update"

	// ActionRemove uninstalls a package absent from the new state.
	ActionRemove ActionKind = "remove"
)

// Action is a single reconciliation step. Actions are computed once per
// planning call and consumed immediately; they are never persisted.
type Action struct {
	Kind ActionKind

	// From is the currently locked package for updates, nil otherwise.
	From *ResolvedPackage

	// To is the target package for installs and updates; for removals it
	// is the package being removed.
	To ResolvedPackage
}

// Describe returns the present-tense verb for user-facing progress lines.
func (a Action) Describe() string {
	switch a.Kind {
	case ActionRemove:
		return "Removing"
	case ActionUpdate:
		return "Updating"
	default:
		return "Installing"
	}
}

// DescribePast returns the past-tense verb for completion lines.
func (a Action) DescribePast() string {
	switch a.Kind {
	case ActionRemove:
		return "Removed"
	case ActionUpdate:
		return "Updated"
	default:
		return "Installed"
	}
}
