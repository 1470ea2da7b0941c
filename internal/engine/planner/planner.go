// Package planner computes the minimal ordered set of install, update and
// remove actions that converges a current resolved set to a new one.
package planner

import "go.trai.ch/lockstep/internal/core/domain"

// Plan diffs the new resolved set against the current one. For every new
// package: absent from current means install, a different version means
// update, an identical version means no action. With includeRemovals,
// every current package absent from the new set is removed.
//
// Plan is pure and total: it never fails, only classifies. Actions are
// emitted in input iteration order; callers needing deterministic output
// must pre-sort their inputs.
func Plan(newPkgs, currentPkgs []domain.ResolvedPackage, includeRemovals bool) []domain.Action {
	currentByName := make(map[domain.InternedString]domain.ResolvedPackage, len(currentPkgs))
	for _, pkg := range currentPkgs {
		currentByName[pkg.Name] = pkg
	}

	var actions []domain.Action
	for _, pkg := range newPkgs {
		current, found := currentByName[pkg.Name]
		switch {
		case !found:
			actions = append(actions, domain.Action{Kind: domain.ActionInstall, To: pkg})
		case current.Version != pkg.Version:
			from := current
			actions = append(actions, domain.Action{Kind: domain.ActionUpdate, From: &from, To: pkg})
		}
	}

	if !includeRemovals {
		return actions
	}

	newNames := make(map[domain.InternedString]struct{}, len(newPkgs))
	for _, pkg := range newPkgs {
		newNames[pkg.Name] = struct{}{}
	}
	for _, pkg := range currentPkgs {
		if _, found := newNames[pkg.Name]; !found {
			actions = append(actions, domain.Action{Kind: domain.ActionRemove, To: pkg})
		}
	}

	return actions
}

// Summary counts the planned actions per kind for user-facing reporting.
type Summary struct {
	Installs int
	Updates  int
	Removals int
}

// Summarize tallies a plan.
func Summarize(actions []domain.Action) Summary {
	var s Summary
	for _, action := range actions {
		switch action.Kind {
		case domain.ActionInstall:
			s.Installs++
		case domain.ActionUpdate:
			s.Updates++
		case domain.ActionRemove:
			s.Removals++
		}
	}
	return s
}
