package planner_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/engine/planner"
)

func pkg(name, version string) domain.ResolvedPackage {
	return domain.ResolvedPackage{Name: domain.CanonicalName(name), Version: version}
}

func TestPlan_IdenticalSetsYieldNoActions(t *testing.T) {
	current := []domain.ResolvedPackage{pkg("requests", "2.19.1"), pkg("six", "1.11.0")}
	actions := planner.Plan(current, current, true)
	require.Empty(t, actions)
}

func TestPlan_InstallUpdateRemove(t *testing.T) {
	current := []domain.ResolvedPackage{
		pkg("requests", "2.18.0"),
		pkg("obsolete", "0.1.0"),
	}
	next := []domain.ResolvedPackage{
		pkg("attrs", "18.1.0"),
		pkg("requests", "2.19.1"),
	}

	actions := planner.Plan(next, current, true)
	require.Len(t, actions, 3)

	require.Equal(t, domain.ActionInstall, actions[0].Kind)
	require.Equal(t, "attrs", actions[0].To.Name.String())

	require.Equal(t, domain.ActionUpdate, actions[1].Kind)
	require.NotNil(t, actions[1].From)
	require.Equal(t, "2.18.0", actions[1].From.Version)
	require.Equal(t, "2.19.1", actions[1].To.Version)

	require.Equal(t, domain.ActionRemove, actions[2].Kind)
	require.Equal(t, "obsolete", actions[2].To.Name.String())
}

func TestPlan_RemovalsSuppressed(t *testing.T) {
	current := []domain.ResolvedPackage{pkg("obsolete", "0.1.0")}
	next := []domain.ResolvedPackage{pkg("attrs", "18.1.0")}

	actions := planner.Plan(next, current, false)
	require.Len(t, actions, 1)
	require.Equal(t, domain.ActionInstall, actions[0].Kind)
}

func TestPlan_EmptyNewSetRemovesEverything(t *testing.T) {
	current := []domain.ResolvedPackage{pkg("requests", "2.19.1")}

	actions := planner.Plan(nil, current, true)
	require.Len(t, actions, 1)
	require.Equal(t, domain.ActionRemove, actions[0].Kind)
}

func TestSummarize(t *testing.T) {
	actions := []domain.Action{
		{Kind: domain.ActionInstall},
		{Kind: domain.ActionInstall},
		{Kind: domain.ActionUpdate},
		{Kind: domain.ActionRemove},
	}
	s := planner.Summarize(actions)
	require.Equal(t, planner.Summary{Installs: 2, Updates: 1, Removals: 1}, s)
}
