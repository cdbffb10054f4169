package rank

import (
	"sort"

	"vaultsearch/internal/domain"
)

// Aggregate collapses scored chunks into one Result per document. Within a
// document the best-scoring chunk becomes the representative excerpt and its
// final score becomes the document's. This keeps a single long book from
// flooding a result page with its own chunks while still letting its best
// chunk compete against every other document.
func Aggregate(candidates []domain.ScoredChunk) []domain.Result {
	best := make(map[string]domain.ScoredChunk)
	for _, cand := range candidates {
		cur, seen := best[cand.Chunk.DocID]
		if !seen || cand.Scores.Final > cur.Scores.Final {
			best[cand.Chunk.DocID] = cand
		}
	}

	results := make([]domain.Result, 0, len(best))
	for _, cand := range best {
		results = append(results, domain.Result{
			DocID:      cand.Chunk.DocID,
			Title:      cand.Doc.Title,
			Path:       cand.Doc.Path,
			Excerpt:    cand.Chunk.Text,
			ChunkIndex: cand.Chunk.Index,
			ChunkTotal: cand.Chunk.Total,
			Scores:     cand.Scores,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Scores.Final != results[j].Scores.Final {
			return results[i].Scores.Final > results[j].Scores.Final
		}
		return results[i].DocID < results[j].DocID
	})

	return results
}
