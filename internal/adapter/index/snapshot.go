package index

import (
	"fmt"
	"sync/atomic"

	"vaultsearch/internal/domain"
)

// Snapshot is a fully-built, immutable pair of indexes plus the chunk and
// document metadata queries need. Once constructed it is never mutated, so
// any number of queries can read it while the next build is in progress.
type Snapshot struct {
	Manifest  domain.Manifest
	Embedding *EmbeddingIndex
	Lexical   *LexicalIndex
	chunks    map[string]domain.Chunk
	docs      map[string]domain.Document
}

// BuildSnapshot constructs a snapshot from a loaded index artifact. Entries
// must arrive in build insertion order; both indexes inherit it for
// deterministic tie-breaking.
func BuildSnapshot(manifest domain.Manifest, docs []domain.Document, entries []domain.IndexEntry, k1, b float64) (*Snapshot, error) {
	snap := &Snapshot{
		Manifest:  manifest,
		Embedding: NewEmbeddingIndex(manifest.Dimension),
		Lexical:   NewLexicalIndex(k1, b),
		chunks:    make(map[string]domain.Chunk, len(entries)),
		docs:      make(map[string]domain.Document, len(docs)),
	}

	for _, doc := range docs {
		snap.docs[doc.ID] = doc
	}

	for _, entry := range entries {
		if err := snap.Embedding.Add(entry.Chunk.ID, entry.Vector); err != nil {
			return nil, fmt.Errorf("snapshot build: %w", err)
		}
		snap.Lexical.Add(entry.Chunk.ID, entry.TermFreqs, entry.TokenCount)
		snap.chunks[entry.Chunk.ID] = entry.Chunk
	}

	return snap, nil
}

// Chunk returns a chunk by id.
func (s *Snapshot) Chunk(id string) (domain.Chunk, bool) {
	c, ok := s.chunks[id]
	return c, ok
}

// Doc returns a document by id.
func (s *Snapshot) Doc(id string) (domain.Document, bool) {
	d, ok := s.docs[id]
	return d, ok
}

// Holder hands the current snapshot to queries and atomically swaps in the
// next one after a rebuild. Many readers, rare writer, no locks.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns an empty holder; Current fails until the first Swap.
func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the active snapshot, or ErrIndexUnavailable when no build
// has completed yet.
func (h *Holder) Current() (*Snapshot, error) {
	snap := h.current.Load()
	if snap == nil {
		return nil, domain.ErrIndexUnavailable
	}
	return snap, nil
}

// Swap installs a freshly-built snapshot. In-flight queries keep reading the
// snapshot they started with.
func (h *Holder) Swap(snap *Snapshot) {
	h.current.Store(snap)
}
