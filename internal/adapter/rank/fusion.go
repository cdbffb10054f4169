package rank

import (
	"sort"

	"vaultsearch/internal/domain"
)

// FusedCandidate is one chunk after reciprocal rank fusion. Raw source
// scores and ranks are carried along so the ScoreSet can expose them.
type FusedCandidate struct {
	ChunkID      string
	Score        float64
	SemanticRank int // 1-based; 0 when absent from the semantic list
	LexicalRank  int // 1-based; 0 when absent from the lexical list
	Semantic     float64
	Lexical      float64
}

// FuseRRF merges the semantic and lexical candidate lists with reciprocal
// rank fusion: each candidate scores sum(1/(rank+constant)) over the lists
// it appears in. Appearing in both lists strictly beats either rank alone.
// Output is descending by fusion score; ties go to the better semantic rank,
// then to first-appearance order.
func FuseRRF(semantic, lexical []domain.Hit, k, constant int) []FusedCandidate {
	if constant <= 0 {
		constant = 60
	}

	byID := make(map[string]*FusedCandidate)
	var order []string

	for i, hit := range semantic {
		c := &FusedCandidate{
			ChunkID:      hit.ChunkID,
			SemanticRank: i + 1,
			Semantic:     hit.Score,
			Score:        1 / float64(i+1+constant),
		}
		byID[hit.ChunkID] = c
		order = append(order, hit.ChunkID)
	}

	for i, hit := range lexical {
		c, seen := byID[hit.ChunkID]
		if !seen {
			c = &FusedCandidate{ChunkID: hit.ChunkID}
			byID[hit.ChunkID] = c
			order = append(order, hit.ChunkID)
		}
		c.LexicalRank = i + 1
		c.Lexical = hit.Score
		c.Score += 1 / float64(i+1+constant)
	}

	fused := make([]FusedCandidate, 0, len(order))
	seq := make(map[string]int, len(order))
	for i, id := range order {
		seq[id] = i
		fused = append(fused, *byID[id])
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		ri, rj := fused[i].SemanticRank, fused[j].SemanticRank
		// A missing semantic rank loses to any present one.
		if ri != rj {
			if ri == 0 {
				return false
			}
			if rj == 0 {
				return true
			}
			return ri < rj
		}
		return seq[fused[i].ChunkID] < seq[fused[j].ChunkID]
	})

	if k > 0 && len(fused) > k {
		fused = fused[:k]
	}
	return fused
}
