package rank

import (
	"sort"

	"vaultsearch/internal/domain"
)

// Weights remix the already-computed raw component scores of a ScoreSet into
// a new final score. This is the tuning surface: expensive signals are
// computed once per query, then an operator can replay them under different
// weight combinations without touching a model.
type Weights struct {
	Semantic     float64 `json:"semantic"`
	Lexical      float64 `json:"lexical"`
	CrossEncoder float64 `json:"cross_encoder"`
	Time         float64 `json:"time"`
	Tag          float64 `json:"tag"`
}

// DefaultWeights reproduce the pipeline's own final score exactly:
// crossEncoder * timeBoost + tagBoost.
func DefaultWeights() Weights {
	return Weights{Semantic: 0, Lexical: 0, CrossEncoder: 1, Time: 1, Tag: 1}
}

// Apply computes the remixed final score for one ScoreSet. The time weight
// interpolates the time multiplier between 1 (ignored) and its full value.
func (w Weights) Apply(s domain.ScoreSet) float64 {
	timeMul := 1 + w.Time*(s.TimeBoost-1)
	return w.Semantic*s.Semantic +
		w.Lexical*s.Lexical +
		w.CrossEncoder*s.CrossEncoder*timeMul +
		w.Tag*s.TagBoost
}

// Remix recomputes final scores for a result list under new weights and
// reorders it. Input is not modified; only Final changes in the copies.
func Remix(results []domain.Result, w Weights) []domain.Result {
	remixed := make([]domain.Result, len(results))
	copy(remixed, results)

	for i := range remixed {
		remixed[i].Scores.Final = w.Apply(remixed[i].Scores)
	}

	sort.Slice(remixed, func(i, j int) bool {
		if remixed[i].Scores.Final != remixed[j].Scores.Final {
			return remixed[i].Scores.Final > remixed[j].Scores.Final
		}
		return remixed[i].DocID < remixed[j].DocID
	})

	return remixed
}
