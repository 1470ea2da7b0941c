package attribution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports/mocks"
	"go.trai.ch/lockstep/internal/engine/attribution"
	"go.uber.org/mock/gomock"
)

func name(s string) domain.InternedString {
	return domain.CanonicalName(s)
}

// pinned builds a pinned match for the given name and version.
func pinned(pkg, version string) domain.Match {
	return domain.Match{Name: name(pkg), Specifier: "==" + version}
}

// parents builds a ParentSet from names.
func parents(names ...string) domain.ParentSet {
	set := make(domain.ParentSet, len(names))
	for _, n := range names {
		set[name(n)] = struct{}{}
	}
	return set
}

func newEngine(t *testing.T) (*attribution.Engine, *mocks.MockRevisionResolver) {
	t.Helper()
	ctrl := gomock.NewController(t)
	revisions := mocks.NewMockRevisionResolver(ctrl)
	return attribution.New(revisions), revisions
}

func TestAttribute_DeclaredInheritsDeclaration(t *testing.T) {
	engine, _ := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{pinned("pytest", "3.5.0")},
	}
	declared := []domain.Dependency{{
		Name:     name("pytest"),
		Category: domain.CategoryDev,
		Optional: true,
		Python:   []string{"~3.6"},
	}}

	pkgs, err := engine.Attribute(context.Background(), resolution, declared)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	require.Equal(t, domain.CategoryDev, pkgs[0].Category)
	require.True(t, pkgs[0].Optional)
	require.Equal(t, []string{"~3.6"}, pkgs[0].Python)
	require.Equal(t, "3.5.0", pkgs[0].Version)
}

func TestAttribute_TransitiveInheritsParentCategory(t *testing.T) {
	engine, _ := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{
			pinned("pytest", "3.5.0"),
			pinned("py", "1.4.34"),
		},
		ReverseDeps: map[domain.InternedString]domain.ParentSet{
			name("py"): parents("pytest"),
		},
	}
	declared := []domain.Dependency{{
		Name:     name("pytest"),
		Category: domain.CategoryDev,
		Optional: true,
	}}

	pkgs, err := engine.Attribute(context.Background(), resolution, declared)
	require.NoError(t, err)
	require.Len(t, pkgs, 2)

	py := pkgs[0]
	require.Equal(t, "py", py.Name.String())
	require.Equal(t, domain.CategoryDev, py.Category)
	require.True(t, py.Optional)
}

func TestAttribute_MainWinsOverDevParent(t *testing.T) {
	engine, _ := newEngine(t)

	// "six" is needed by both a dev declaration and, transitively, a main
	// declaration: the main attribution must win regardless of parent order.
	resolution := &domain.Resolution{
		Matches: []domain.Match{
			pinned("pytest", "3.5.0"),
			pinned("requests", "2.19.1"),
			pinned("urllib3", "1.23"),
			pinned("six", "1.11.0"),
		},
		ReverseDeps: map[domain.InternedString]domain.ParentSet{
			name("urllib3"): parents("requests"),
			name("six"):     parents("pytest", "urllib3"),
		},
	}
	declared := []domain.Dependency{
		{Name: name("pytest"), Category: domain.CategoryDev},
		{Name: name("requests"), Category: domain.CategoryMain},
	}

	pkgs, err := engine.Attribute(context.Background(), resolution, declared)
	require.NoError(t, err)

	byName := make(map[string]domain.ResolvedPackage)
	for _, pkg := range pkgs {
		byName[pkg.Name.String()] = pkg
	}
	require.Equal(t, domain.CategoryMain, byName["six"].Category)
	require.Equal(t, domain.CategoryMain, byName["urllib3"].Category)
	require.Equal(t, domain.CategoryDev, byName["pytest"].Category)
}

func TestAttribute_CycleWithoutAnchorDefaultsToMain(t *testing.T) {
	engine, _ := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{
			pinned("alpha", "1.0"),
			pinned("beta", "2.0"),
		},
		ReverseDeps: map[domain.InternedString]domain.ParentSet{
			name("alpha"): parents("beta"),
			name("beta"):  parents("alpha"),
		},
	}

	pkgs, err := engine.Attribute(context.Background(), resolution, nil)
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	for _, pkg := range pkgs {
		require.Equal(t, domain.CategoryMain, pkg.Category)
		require.False(t, pkg.Optional)
	}
}

func TestAttribute_ExcludesBuildTooling(t *testing.T) {
	engine, _ := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{
			pinned("requests", "2.19.1"),
			pinned("setuptools", "40.0.0"),
			pinned("pip", "18.0"),
			pinned("wheel", "0.31.1"),
			pinned("distribute", "0.7.3"),
		},
	}

	pkgs, err := engine.Attribute(context.Background(), resolution, nil)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	require.Equal(t, "requests", pkgs[0].Name.String())
}

func TestAttribute_PythonRestrictionUnion(t *testing.T) {
	engine, _ := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{
			pinned("a", "1.0"),
			pinned("b", "1.0"),
			pinned("shared", "1.0"),
		},
		ReverseDeps: map[domain.InternedString]domain.ParentSet{
			name("shared"): parents("a", "b"),
		},
	}
	declared := []domain.Dependency{
		{Name: name("a"), Category: domain.CategoryMain, Python: []string{"~3.6"}},
		{Name: name("b"), Category: domain.CategoryMain, Python: []string{"~2.7"}},
	}

	pkgs, err := engine.Attribute(context.Background(), resolution, declared)
	require.NoError(t, err)

	byName := make(map[string]domain.ResolvedPackage)
	for _, pkg := range pkgs {
		byName[pkg.Name.String()] = pkg
	}
	require.Equal(t, []string{"~2.7", "~3.6"}, byName["shared"].Python)
}

func TestAttribute_UnrestrictedParentCollapsesToWildcard(t *testing.T) {
	engine, _ := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{
			pinned("a", "1.0"),
			pinned("b", "1.0"),
			pinned("shared", "1.0"),
		},
		ReverseDeps: map[domain.InternedString]domain.ParentSet{
			name("shared"): parents("a", "b"),
		},
	}
	declared := []domain.Dependency{
		{Name: name("a"), Category: domain.CategoryMain, Python: []string{"~3.6"}},
		{Name: name("b"), Category: domain.CategoryMain},
	}

	pkgs, err := engine.Attribute(context.Background(), resolution, declared)
	require.NoError(t, err)

	byName := make(map[string]domain.ResolvedPackage)
	for _, pkg := range pkgs {
		byName[pkg.Name.String()] = pkg
	}
	require.Equal(t, []string{"*"}, byName["shared"].Python)
}

func TestAttribute_PinsEditableMatches(t *testing.T) {
	engine, revisions := newEngine(t)

	link := "git+https://github.com/sdispater/pendulum.git@1.4.4#egg=pendulum"
	resolution := &domain.Resolution{
		Matches: []domain.Match{{
			Name:     name("pendulum"),
			Link:     link,
			Editable: true,
		}},
	}

	revisions.EXPECT().
		Pin(gomock.Any(), domain.VCSSource{
			Kind: domain.VCSKindGit,
			URL:  "git+https://github.com/sdispater/pendulum.git",
			Ref:  "1.4.4",
		}).
		Return("3f5c2a51e22f28051d17e45ae4a12e55c50e4a38", nil)

	pkgs, err := engine.Attribute(context.Background(), resolution, nil)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	pkg := pkgs[0]
	require.Equal(t, "git:3f5c2a51e22f28051d17e45ae4a12e55c50e4a38", pkg.Version)
	require.Equal(t, []string{"sha1:3f5c2a51e22f28051d17e45ae4a12e55c50e4a38"}, pkg.Hashes)
	require.NotNil(t, pkg.Source)
	require.Equal(t, "3f5c2a51e22f28051d17e45ae4a12e55c50e4a38", pkg.Source.Ref)
}

func TestAttribute_RevisionFailurePropagates(t *testing.T) {
	engine, revisions := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{{
			Name:     name("pendulum"),
			Link:     "git+https://example.com/pendulum.git@dead#egg=pendulum",
			Editable: true,
		}},
	}

	pinErr := errors.New("checkout failed")
	revisions.EXPECT().Pin(gomock.Any(), gomock.Any()).Return("", pinErr)

	_, err := engine.Attribute(context.Background(), resolution, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, pinErr))
}

func TestAttribute_SortsCaseInsensitively(t *testing.T) {
	engine, _ := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{
			pinned("zope-interface", "4.5.0"),
			pinned("Django", "2.1"),
			pinned("attrs", "18.1.0"),
		},
	}

	pkgs, err := engine.Attribute(context.Background(), resolution, nil)
	require.NoError(t, err)

	names := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		names[i] = pkg.Name.String()
	}
	require.Equal(t, []string{"attrs", "django", "zope-interface"}, names)
}

func TestAttribute_SortsHashes(t *testing.T) {
	engine, _ := newEngine(t)

	resolution := &domain.Resolution{
		Matches: []domain.Match{pinned("requests", "2.19.1")},
		Hashes: map[domain.InternedString][]string{
			name("requests"): {"sha256:bbb", "sha256:aaa"},
		},
	}

	pkgs, err := engine.Attribute(context.Background(), resolution, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"sha256:aaa", "sha256:bbb"}, pkgs[0].Hashes)
}

func TestCrossCheck_TargetedWins(t *testing.T) {
	all := []domain.ResolvedPackage{
		{Name: name("requests"), Version: "2.19.1", Hashes: []string{"sha256:old"}},
		{Name: name("six"), Version: "1.11.0"},
	}
	targeted := []domain.ResolvedPackage{
		{Name: name("requests"), Version: "2.19.1", Hashes: []string{"sha256:fresh"}},
	}

	merged, err := attribution.CrossCheck(all, targeted)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	require.Equal(t, []string{"sha256:fresh"}, merged[0].Hashes)
	require.Equal(t, "six", merged[1].Name.String())
}

func TestCrossCheck_VersionMismatchFails(t *testing.T) {
	all := []domain.ResolvedPackage{{Name: name("requests"), Version: "2.19.1"}}
	targeted := []domain.ResolvedPackage{{Name: name("requests"), Version: "2.20.0"}}

	_, err := attribution.CrossCheck(all, targeted)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrIncompatibleResolution))
}
