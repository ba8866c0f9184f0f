package catalog

import "sync/atomic"

// Store publishes the active catalog. Readers take a Snapshot at the start of
// a computation and use it throughout, so a concurrent Replace never exposes
// a half-updated catalog.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a store holding c, which may be nil.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	if c != nil {
		s.current.Store(c)
	}
	return s
}

// Snapshot returns the active catalog or nil if none has been loaded.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load()
}

// Replace installs c and returns the catalog it replaced.
func (s *Store) Replace(c *Catalog) *Catalog {
	return s.current.Swap(c)
}
