package index

import (
	"math"
	"sort"

	"vaultsearch/internal/domain"
)

// LexicalIndex is an in-memory inverted index scored with BM25. The scoring
// unit is the chunk: document frequency and length normalization are both
// computed over chunks, not original documents.
type LexicalIndex struct {
	k1 float64
	b  float64

	postings map[string][]domain.Posting
	lengths  map[string]int
	order    map[string]int // chunk id -> insertion sequence, for stable ties
	totalLen int
}

// NewLexicalIndex creates an index with the given BM25 parameters.
func NewLexicalIndex(k1, b float64) *LexicalIndex {
	return &LexicalIndex{
		k1:       k1,
		b:        b,
		postings: make(map[string][]domain.Posting),
		lengths:  make(map[string]int),
		order:    make(map[string]int),
	}
}

// Add inserts one chunk's term statistics. tokenCount is the chunk's total
// token count, used for length normalization.
func (x *LexicalIndex) Add(chunkID string, termFreqs map[string]int, tokenCount int) {
	if _, exists := x.order[chunkID]; exists {
		return
	}
	x.order[chunkID] = len(x.order)
	x.lengths[chunkID] = tokenCount
	x.totalLen += tokenCount

	for term, tf := range termFreqs {
		x.postings[term] = append(x.postings[term], domain.Posting{ChunkID: chunkID, TF: tf})
	}
}

// Search scores chunks containing any query term with BM25 and returns the
// top k. An empty term list yields an empty result, not an error.
func (x *LexicalIndex) Search(terms []string, k int) []domain.Hit {
	if len(terms) == 0 || len(x.order) == 0 || k <= 0 {
		return nil
	}

	totalChunks := float64(len(x.order))
	avgLen := float64(x.totalLen) / totalChunks

	scores := make(map[string]float64)
	for _, term := range terms {
		postings := x.postings[term]
		if len(postings) == 0 {
			continue
		}

		n := float64(len(postings))
		idf := math.Log((totalChunks-n+0.5)/(n+0.5) + 1)

		for _, p := range postings {
			dl := float64(x.lengths[p.ChunkID])
			tf := float64(p.TF)
			scores[p.ChunkID] += idf * (tf * (x.k1 + 1)) / (tf + x.k1*(1-x.b+x.b*dl/avgLen))
		}
	}

	hits := make([]domain.Hit, 0, len(scores))
	for id, score := range scores {
		hits = append(hits, domain.Hit{ChunkID: id, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return x.order[hits[i].ChunkID] < x.order[hits[j].ChunkID]
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}

// Len returns the number of indexed chunks.
func (x *LexicalIndex) Len() int {
	return len(x.order)
}

// Stats returns corpus-wide statistics over indexed chunks.
func (x *LexicalIndex) Stats() domain.Stats {
	stats := domain.Stats{TotalChunks: len(x.order)}
	if stats.TotalChunks > 0 {
		stats.AvgChunkLen = float64(x.totalLen) / float64(stats.TotalChunks)
	}
	return stats
}
