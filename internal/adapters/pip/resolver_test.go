package pip_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/adapters/pip"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const resolveOutput = `{
  "matches": [
    {"name": "requests", "specifier": "==2.19.1"},
    {"name": "urllib3", "specifier": "==1.23"},
    {"name": "Pendulum", "link": "git+https://github.com/sdispater/pendulum.git@1.4.4#egg=pendulum", "editable": true}
  ],
  "reverse_dependencies": {
    "urllib3": ["requests"]
  }
}`

func newResolver(t *testing.T) (*pip.Resolver, *mocks.MockCommandRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	return pip.NewResolver(runner), runner
}

func TestResolver_Resolve(t *testing.T) {
	resolver, runner := newResolver(t)

	runner.EXPECT().
		Run(gomock.Any(), "",
			"python", "-m", "lockstep_resolver", "resolve", "--json",
			"requests>=2.19,<3").
		Return(resolveOutput, nil)

	// One hash lookup per pinned match; the editable match is not hashable.
	runner.EXPECT().
		Run(gomock.Any(), "",
			"python", "-m", "lockstep_resolver", "hashes", "--json", "requests==2.19.1").
		Return(`{"hashes": ["sha256:aaa"]}`, nil)
	runner.EXPECT().
		Run(gomock.Any(), "",
			"python", "-m", "lockstep_resolver", "hashes", "--json", "urllib3==1.23").
		Return(`{"hashes": ["sha256:bbb"]}`, nil)

	deps := []domain.Dependency{{
		Name:       domain.CanonicalName("requests"),
		Constraint: ">=2.19,<3",
	}}

	resolution, err := resolver.Resolve(context.Background(), deps, false)
	require.NoError(t, err)
	require.Len(t, resolution.Matches, 3)

	// Names come back canonicalized.
	require.Equal(t, "pendulum", resolution.Matches[2].Name.String())
	require.True(t, resolution.Matches[2].Editable)

	parents := resolution.Parents(domain.CanonicalName("urllib3"))
	require.Contains(t, parents, domain.CanonicalName("requests"))

	require.Equal(t, []string{"sha256:aaa"}, resolution.Hashes[domain.CanonicalName("requests")])
	require.Equal(t, []string{"sha256:bbb"}, resolution.Hashes[domain.CanonicalName("urllib3")])
}

func TestResolver_ResolvePrereleasesAddsFlag(t *testing.T) {
	resolver, runner := newResolver(t)

	runner.EXPECT().
		Run(gomock.Any(), "",
			"python", "-m", "lockstep_resolver", "resolve", "--json", "--pre",
			"black").
		Return(`{"matches": [], "reverse_dependencies": {}}`, nil)

	deps := []domain.Dependency{{Name: domain.CanonicalName("black"), Prereleases: true}}

	_, err := resolver.Resolve(context.Background(), deps, true)
	require.NoError(t, err)
}

func TestResolver_ResolveFailurePropagates(t *testing.T) {
	resolver, runner := newResolver(t)

	runFailed := errors.New("unsatisfiable")
	runner.EXPECT().
		Run(gomock.Any(), "", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", runFailed)

	deps := []domain.Dependency{{Name: domain.CanonicalName("requests"), Constraint: "==0.0.0"}}

	_, err := resolver.Resolve(context.Background(), deps, false)
	require.Error(t, err)
	require.True(t, errors.Is(err, runFailed))
}

func TestResolver_MalformedReportFails(t *testing.T) {
	resolver, runner := newResolver(t)

	runner.EXPECT().
		Run(gomock.Any(), "", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("not json", nil)

	deps := []domain.Dependency{{Name: domain.CanonicalName("requests"), Constraint: "==2.19.1"}}

	_, err := resolver.Resolve(context.Background(), deps, false)
	require.Error(t, err)
}
