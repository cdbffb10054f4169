package rank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vaultsearch/internal/domain"
)

func remixResult(docID string, scores domain.ScoreSet) domain.Result {
	return domain.Result{DocID: docID, Scores: scores}
}

func TestDefaultWeightsReproducePipelineFinal(t *testing.T) {
	scores := domain.ScoreSet{
		Semantic:     0.8,
		Lexical:      5.2,
		Fusion:       0.03,
		CrossEncoder: 2.4,
		TimeBoost:    0.6,
		TagBoost:     0.1,
		Final:        2.4*0.6 + 0.1,
	}

	got := DefaultWeights().Apply(scores)
	require.InDelta(t, scores.Final, got, 1e-12)
}

func TestRemixReorders(t *testing.T) {
	results := []domain.Result{
		remixResult("recent", domain.ScoreSet{CrossEncoder: 1.0, TimeBoost: 1.0, Final: 1.0}),
		remixResult("old", domain.ScoreSet{CrossEncoder: 1.5, TimeBoost: 0.3, Final: 0.45}),
	}

	// Ignoring time flips the order: the old document's raw score wins.
	remixed := Remix(results, Weights{CrossEncoder: 1, Time: 0})
	require.Equal(t, "old", remixed[0].DocID)
	require.InDelta(t, 1.5, remixed[0].Scores.Final, 1e-12)

	// Input untouched.
	require.Equal(t, "recent", results[0].DocID)
	require.Equal(t, 1.0, results[0].Scores.Final)
}

func TestRemixLexicalOnly(t *testing.T) {
	results := []domain.Result{
		remixResult("semheavy", domain.ScoreSet{Semantic: 0.99, Lexical: 1.0, CrossEncoder: 3, TimeBoost: 1}),
		remixResult("lexheavy", domain.ScoreSet{Semantic: 0.10, Lexical: 9.0, CrossEncoder: 1, TimeBoost: 1}),
	}

	remixed := Remix(results, Weights{Lexical: 1})
	require.Equal(t, "lexheavy", remixed[0].DocID)
	require.InDelta(t, 9.0, remixed[0].Scores.Final, 1e-12)
}

func TestRemixTieBreaksByDocID(t *testing.T) {
	results := []domain.Result{
		remixResult("zeta", domain.ScoreSet{CrossEncoder: 1, TimeBoost: 1}),
		remixResult("alpha", domain.ScoreSet{CrossEncoder: 1, TimeBoost: 1}),
	}

	remixed := Remix(results, DefaultWeights())
	require.Equal(t, "alpha", remixed[0].DocID)
}
