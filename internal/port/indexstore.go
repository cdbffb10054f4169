package port

import "vaultsearch/internal/domain"

// IndexStore persists the index artifact. A build replaces the artifact
// wholesale; there are no partial updates.
type IndexStore interface {
	// WriteBuild replaces the stored artifact with a new build.
	WriteBuild(manifest domain.Manifest, docs []domain.Document, entries []domain.IndexEntry) error

	// Manifest returns the stored manifest. ok is false when no build has
	// ever been written.
	Manifest() (manifest domain.Manifest, ok bool, err error)

	// LoadBuild reads the full artifact back for snapshot construction.
	// Entries come back in build insertion order.
	LoadBuild() (domain.Manifest, []domain.Document, []domain.IndexEntry, error)

	Close() error
}
