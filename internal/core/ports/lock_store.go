package ports

import "go.trai.ch/lockstep/internal/core/domain"

// LockStore persists the locked dependency state. Writes are atomic: the
// rendered lock is written to a temporary location and moved into place,
// so a partial lock file can never be observed.
//
//go:generate go run go.uber.org/mock/mockgen -source=lock_store.go -destination=mocks/mock_lock_store.go -package=mocks
type LockStore interface {
	// Exists reports whether a lock file is present.
	Exists() bool

	// Read parses the persisted lock state.
	Read() (*domain.LockedState, error)

	// Write replaces the persisted lock state with the given one.
	Write(state *domain.LockedState) error
}
