package rank

import (
	"math"
	"strings"
	"time"

	"vaultsearch/internal/domain"
)

// Booster applies the deterministic scoring adjustments: a multiplicative
// recency boost and an additive tag-affinity bonus.
//
//	final = crossEncoder * timeBoost + tagBoost
//
// Recency scales relevance; a tag match adds a flat bonus regardless of the
// base score's magnitude.
type Booster struct {
	halfLife  time.Duration
	floor     float64
	tagWeight float64
	now       func() time.Time
}

// NewBooster creates a booster. halfLifeDays controls how fast the time
// boost decays, floor is the multiplier very old documents approach (never
// zero: age must dampen relevance, not erase it), tagWeight is the additive
// bonus per matching tag.
func NewBooster(halfLifeDays, floor, tagWeight float64) *Booster {
	return &Booster{
		halfLife:  time.Duration(halfLifeDays * 24 * float64(time.Hour)),
		floor:     floor,
		tagWeight: tagWeight,
		now:       time.Now,
	}
}

// Boost fills in TimeBoost, TagBoost and Final for one candidate.
func (b *Booster) Boost(cand *domain.ScoredChunk, queryTags []string) {
	cand.Scores.TimeBoost = b.timeMultiplier(cand.Doc.ModTime)
	cand.Scores.TagBoost = b.tagBonus(cand.Doc.Tags, queryTags)
	cand.Scores.Final = cand.Scores.CrossEncoder*cand.Scores.TimeBoost + cand.Scores.TagBoost
}

// timeMultiplier decays exponentially with document age, halving every
// half-life and flattening out at the floor.
func (b *Booster) timeMultiplier(modTime time.Time) float64 {
	if modTime.IsZero() {
		return 1
	}
	age := b.now().Sub(modTime)
	if age <= 0 {
		return 1
	}

	decay := math.Exp2(-age.Hours() / b.halfLife.Hours())
	return b.floor + (1-b.floor)*decay
}

// tagBonus is proportional to the intersection between document tags and
// query tags. No tag signal means an addend of exactly zero.
func (b *Booster) tagBonus(docTags, queryTags []string) float64 {
	if len(docTags) == 0 || len(queryTags) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(docTags))
	for _, t := range docTags {
		set[strings.ToLower(t)] = struct{}{}
	}

	matches := 0
	for _, t := range queryTags {
		if _, ok := set[strings.ToLower(t)]; ok {
			matches++
		}
	}
	return b.tagWeight * float64(matches)
}
