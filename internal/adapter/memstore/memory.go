package memstore

import (
	"fmt"
	"sync"

	"vaultsearch/internal/domain"
)

// MemoryStore is an in-memory IndexStore used in tests and throwaway
// indexing runs. It mirrors the BoltDB store's replace-wholesale contract.
type MemoryStore struct {
	mu       sync.RWMutex
	manifest domain.Manifest
	docs     []domain.Document
	entries  []domain.IndexEntry
	built    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) WriteBuild(manifest domain.Manifest, docs []domain.Document, entries []domain.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manifest = manifest
	s.docs = append([]domain.Document(nil), docs...)
	s.entries = append([]domain.IndexEntry(nil), entries...)
	for i := range s.entries {
		s.entries[i].Seq = i
	}
	s.built = true
	return nil
}

func (s *MemoryStore) Manifest() (domain.Manifest, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest, s.built, nil
}

func (s *MemoryStore) LoadBuild() (domain.Manifest, []domain.Document, []domain.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.built {
		return domain.Manifest{}, nil, nil, fmt.Errorf("no build present")
	}
	docs := append([]domain.Document(nil), s.docs...)
	entries := append([]domain.IndexEntry(nil), s.entries...)
	return s.manifest, docs, entries, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
