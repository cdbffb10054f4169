package port

import "vaultsearch/internal/domain"

// Vault yields the raw documents the index is built from. The implementation
// owns file formats and metadata extraction; the core never touches the
// filesystem directly.
type Vault interface {
	// List returns metadata for every document currently in the vault.
	List() ([]domain.Document, error)

	// ReadText returns the full text of one document.
	ReadText(id string) (string, error)
}
