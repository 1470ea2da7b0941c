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

func newManager(t *testing.T) (*pip.Manager, *mocks.MockCommandRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	return pip.NewManager(runner), runner
}

func TestManager_InstallReleased(t *testing.T) {
	manager, runner := newManager(t)

	runner.EXPECT().
		Run(gomock.Any(), "", "pip", "install", "requests==2.19.1").
		Return("", nil)

	pkg := domain.ResolvedPackage{Name: domain.CanonicalName("requests"), Version: "2.19.1"}
	require.NoError(t, manager.Install(context.Background(), pkg, false))
}

func TestManager_InstallUpgradeAddsFlag(t *testing.T) {
	manager, runner := newManager(t)

	runner.EXPECT().
		Run(gomock.Any(), "", "pip", "install", "requests==2.19.1", "-U").
		Return("", nil)

	pkg := domain.ResolvedPackage{Name: domain.CanonicalName("requests"), Version: "2.19.1"}
	require.NoError(t, manager.Install(context.Background(), pkg, true))
}

func TestManager_InstallVCSUsesSourceLink(t *testing.T) {
	manager, runner := newManager(t)

	runner.EXPECT().
		Run(gomock.Any(), "",
			"pip", "install",
			"git+https://github.com/sdispater/pendulum.git@3f5c2a#egg=pendulum", "-U").
		Return("", nil)

	pkg := domain.ResolvedPackage{
		Name:    domain.CanonicalName("pendulum"),
		Version: "git:3f5c2a",
		Source: &domain.VCSSource{
			Kind: domain.VCSKindGit,
			URL:  "git+https://github.com/sdispater/pendulum.git",
			Ref:  "3f5c2a",
		},
	}
	require.NoError(t, manager.Install(context.Background(), pkg, true))
}

func TestManager_InstallFailureCarriesPackage(t *testing.T) {
	manager, runner := newManager(t)

	runFailed := errors.New("exit 1")
	runner.EXPECT().
		Run(gomock.Any(), "", "pip", "install", "requests==2.19.1").
		Return("", runFailed)

	pkg := domain.ResolvedPackage{Name: domain.CanonicalName("requests"), Version: "2.19.1"}
	err := manager.Install(context.Background(), pkg, false)
	require.Error(t, err)
	require.True(t, errors.Is(err, runFailed))
}

func TestManager_Remove(t *testing.T) {
	manager, runner := newManager(t)

	runner.EXPECT().
		Run(gomock.Any(), "", "pip", "uninstall", "six", "-y").
		Return("", nil)

	pkg := domain.ResolvedPackage{Name: domain.CanonicalName("six"), Version: "1.11.0"}
	require.NoError(t, manager.Remove(context.Background(), pkg))
}

func TestManager_InstalledParsesFreezeOutput(t *testing.T) {
	manager, runner := newManager(t)

	freeze := "requests==2.19.1\n" +
		"Zope.Interface==4.5.0\n" +
		"-e git+https://github.com/sdispater/pendulum.git@3f5c2a#egg=pendulum\n" +
		"-e git+https://example.com/broken.git\n" +
		"not-a-freeze-line\n" +
		"\n"
	runner.EXPECT().Run(gomock.Any(), "", "pip", "freeze").Return(freeze, nil)

	installed, err := manager.Installed(context.Background())
	require.NoError(t, err)

	require.Equal(t, "2.19.1", installed[domain.CanonicalName("requests")])
	require.Equal(t, "4.5.0", installed[domain.CanonicalName("zope-interface")])
	require.Equal(t, "3f5c2a", installed[domain.CanonicalName("pendulum")])

	// Malformed lines are skipped entirely.
	require.Len(t, installed, 3)
}

func TestManager_InterpreterVersion(t *testing.T) {
	manager, runner := newManager(t)

	runner.EXPECT().
		Run(gomock.Any(), "", "python", "-c", gomock.Any()).
		Return("3.6\n", nil)

	version, err := manager.InterpreterVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, "3.6", version)
}
