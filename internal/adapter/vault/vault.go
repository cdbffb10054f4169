package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vaultsearch/internal/domain"
)

// Vault reads a directory of notes and exposes them as documents. Document
// ids are paths relative to the vault root, so they stay stable across
// machines and rebuilds.
type Vault struct {
	root   string
	walker *Walker
}

// New creates a vault rooted at dir.
func New(dir string, includes, excludes []string) *Vault {
	return &Vault{
		root:   dir,
		walker: NewWalker(includes, excludes),
	}
}

// List returns metadata for every matching document in the vault.
func (v *Vault) List() ([]domain.Document, error) {
	files, err := v.walker.Walk(v.root)
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}

	docs := make([]domain.Document, 0, len(files))
	for _, file := range files {
		raw, err := os.ReadFile(filepath.Join(v.root, file.Path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file.Path, err)
		}
		note := ParseNote(file.Path, string(raw))

		docs = append(docs, domain.Document{
			ID:      filepath.ToSlash(file.Path),
			Path:    file.Path,
			Title:   note.Title,
			ModTime: time.Unix(file.ModTime, 0),
			Size:    len(note.Body),
			Tags:    note.Tags,
			Kind:    note.Kind,
		})
	}

	return docs, nil
}

// ReadText returns the body text of one document, frontmatter stripped.
func (v *Vault) ReadText(id string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(v.root, filepath.FromSlash(id)))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", id, err)
	}
	return ParseNote(id, string(raw)).Body, nil
}
