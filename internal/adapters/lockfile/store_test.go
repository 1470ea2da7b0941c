package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/adapters/lockfile"
	"go.trai.ch/lockstep/internal/core/domain"
)

func testState() *domain.LockedState {
	return &domain.LockedState{
		Packages: []domain.ResolvedPackage{
			{
				Name:     domain.CanonicalName("pendulum"),
				Version:  "git:3f5c2a",
				Hashes:   []string{"sha1:3f5c2a"},
				Category: domain.CategoryMain,
				Python:   []string{"*"},
				Source: &domain.VCSSource{
					Kind: domain.VCSKindGit,
					URL:  "git+https://github.com/sdispater/pendulum.git",
					Ref:  "3f5c2a",
				},
			},
			{
				Name:     domain.CanonicalName("requests"),
				Version:  "2.19.1",
				Hashes:   []string{"sha256:aaa", "sha256:bbb"},
				Category: domain.CategoryMain,
				Python:   []string{"*"},
			},
		},
		Features: map[string][]string{"time": {"pendulum"}},
	}
}

func TestStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), lockfile.Filename)
	store := lockfile.NewStore(path)

	require.False(t, store.Exists())
	require.NoError(t, store.Write(testState()))
	require.True(t, store.Exists())

	state, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, testState(), state)
}

func TestStore_WriteIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := lockfile.NewStore(filepath.Join(dir, "a.lock"))
	b := lockfile.NewStore(filepath.Join(dir, "b.lock"))

	require.NoError(t, a.Write(testState()))
	require.NoError(t, b.Write(testState()))

	first, err := os.ReadFile(filepath.Join(dir, "a.lock"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "b.lock"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestStore_UnchangedStateIsNotRewritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), lockfile.Filename)
	store := lockfile.NewStore(path)

	require.NoError(t, store.Write(testState()))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	require.NoError(t, store.Write(testState()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.WithinDuration(t, past, info.ModTime(), time.Second)
}

func TestStore_ChangedStateReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), lockfile.Filename)
	store := lockfile.NewStore(path)

	require.NoError(t, store.Write(testState()))

	changed := testState()
	changed.Packages[1].Version = "2.20.0"
	require.NoError(t, store.Write(changed))

	state, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, "2.20.0", state.Packages[1].Version)
}

func TestStore_WriteLeavesNoTemporaries(t *testing.T) {
	dir := t.TempDir()
	store := lockfile.NewStore(filepath.Join(dir, lockfile.Filename))

	require.NoError(t, store.Write(testState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, lockfile.Filename, entries[0].Name())
}

func TestStore_ReadRejectsUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), lockfile.Filename)
	require.NoError(t, os.WriteFile(path, []byte(`
[[package]]
name = "requests"
version = "2.19.1"
category = "test"
`), 0o644))

	_, err := lockfile.NewStore(path).Read()
	require.Error(t, err)
}
