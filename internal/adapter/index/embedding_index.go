package index

import (
	"fmt"
	"math"
	"sort"

	"vaultsearch/internal/domain"
)

// EmbeddingIndex is a brute-force cosine-similarity index. Vector norms are
// cached at insertion so a query costs one dot product per stored vector.
// Ordering is deterministic: descending score, ties by insertion order.
type EmbeddingIndex struct {
	dimension int
	ids       []string
	vectors   [][]float32
	norms     []float64
}

// NewEmbeddingIndex creates an index for vectors of the given dimension.
func NewEmbeddingIndex(dimension int) *EmbeddingIndex {
	return &EmbeddingIndex{dimension: dimension}
}

// Add inserts one chunk vector. Vectors of the wrong dimension are rejected.
func (x *EmbeddingIndex) Add(chunkID string, vector []float32) error {
	if len(vector) != x.dimension {
		return fmt.Errorf("vector dimension mismatch for %s: expected %d, got %d",
			chunkID, x.dimension, len(vector))
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}

	x.ids = append(x.ids, chunkID)
	x.vectors = append(x.vectors, vector)
	x.norms = append(x.norms, math.Sqrt(norm))
	return nil
}

// Search returns the k nearest stored vectors by cosine similarity.
func (x *EmbeddingIndex) Search(query []float32, k int) ([]domain.Hit, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d",
			x.dimension, len(query))
	}
	if len(x.ids) == 0 || k <= 0 {
		return nil, nil
	}

	var queryNorm float64
	for _, v := range query {
		queryNorm += float64(v) * float64(v)
	}
	queryNorm = math.Sqrt(queryNorm)

	hits := make([]domain.Hit, len(x.ids))
	for i, id := range x.ids {
		hits[i] = domain.Hit{
			ChunkID: id,
			Score:   x.cosine(query, queryNorm, i),
		}
	}

	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of stored vectors.
func (x *EmbeddingIndex) Len() int {
	return len(x.ids)
}

func (x *EmbeddingIndex) cosine(query []float32, queryNorm float64, i int) float64 {
	if queryNorm == 0 || x.norms[i] == 0 {
		return 0
	}

	stored := x.vectors[i]
	var dot float64
	for j := range query {
		dot += float64(query[j]) * float64(stored[j])
	}
	return dot / (queryNorm * x.norms[i])
}
