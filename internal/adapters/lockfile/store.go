// Package lockfile persists the locked dependency state as a stable TOML
// document.
package lockfile

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Filename is the lock file name in the working directory.
const Filename = "lockstep.lock"

// Store implements ports.LockStore. The rendered document is fully
// deterministic: packages arrive pre-sorted, feature tables are emitted in
// key order, so locking the same resolution twice yields byte-identical
// files.
type Store struct {
	path string
}

// NewStore creates a Store for the lock file at the given path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Exists reports whether the lock file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Read parses the persisted lock state.
func (s *Store) Read() (*domain.LockedState, error) {
	//nolint:gosec // path is the project lock file
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read lock file")
	}

	var doc lockDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, "failed to parse lock file")
	}

	state := &domain.LockedState{
		Packages: make([]domain.ResolvedPackage, 0, len(doc.Packages)),
		Features: doc.Features,
	}
	if state.Features == nil {
		state.Features = map[string][]string{}
	}
	for _, dto := range doc.Packages {
		pkg := domain.ResolvedPackage{
			Name:     domain.CanonicalName(dto.Name),
			Version:  dto.Version,
			Hashes:   dto.Hashes,
			Category: dto.Category,
			Optional: dto.Optional,
			Python:   dto.Python,
		}
		if dto.Source != nil {
			pkg.Source = &domain.VCSSource{Kind: dto.Source.Kind, URL: dto.Source.URL, Ref: dto.Source.Ref}
		}
		state.Packages = append(state.Packages, pkg)
	}
	return state, nil
}

// Write atomically replaces the lock file with the rendered state: the
// document is written to a temporary file in the same directory and moved
// into place, so a partial lock can never be observed. An unchanged
// rendering is not rewritten at all, keeping the file's mtime stable.
func (s *Store) Write(state *domain.LockedState) error {
	doc := lockDocument{
		Packages: make([]packageDTO, 0, len(state.Packages)),
		Features: state.Features,
	}
	for _, pkg := range state.Packages {
		dto := packageDTO{
			Name:     pkg.Name.String(),
			Version:  pkg.Version,
			Hashes:   pkg.Hashes,
			Category: pkg.Category,
			Optional: pkg.Optional,
			Python:   pkg.Python,
		}
		if pkg.Source != nil {
			dto.Source = &sourceDTO{Kind: pkg.Source.Kind, URL: pkg.Source.URL, Ref: pkg.Source.Ref}
		}
		doc.Packages = append(doc.Packages, dto)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return zerr.Wrap(err, "failed to render lock file")
	}

	if s.unchanged(buf.Bytes()) {
		return nil
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".lockstep-lock-")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary lock file")
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write lock file")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to write lock file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.Wrap(err, "failed to replace lock file")
	}
	return nil
}

// unchanged reports whether the current lock file content has the same
// fingerprint as the rendered document.
func (s *Store) unchanged(rendered []byte) bool {
	current, err := os.ReadFile(s.path) //nolint:gosec // path is the project lock file
	if err != nil {
		return false
	}
	return xxhash.Sum64(current) == xxhash.Sum64(rendered)
}
