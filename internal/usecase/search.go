package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"vaultsearch/config"
	"vaultsearch/internal/adapter/analyzer"
	"vaultsearch/internal/adapter/cache"
	"vaultsearch/internal/adapter/index"
	"vaultsearch/internal/adapter/rank"
	"vaultsearch/internal/domain"
	"vaultsearch/internal/port"
)

// Searcher runs the query pipeline: embed the query, fan out to both
// indexes, fuse, rerank, boost and aggregate. Every call reads one snapshot
// for its whole lifetime, so a rebuild mid-query is invisible.
type Searcher struct {
	cfg       *config.Config
	holder    *index.Holder
	embedder  port.Embedder
	tokenizer *analyzer.Tokenizer
	reranker  *rank.Reranker
	booster   *rank.Booster
	cache     *cache.QueryCache
	logger    *slog.Logger
}

// NewSearcher creates a searcher. cache may be nil to disable caching.
func NewSearcher(
	cfg *config.Config,
	holder *index.Holder,
	embedder port.Embedder,
	tokenizer *analyzer.Tokenizer,
	reranker *rank.Reranker,
	booster *rank.Booster,
	queryCache *cache.QueryCache,
	logger *slog.Logger,
) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		cfg:       cfg,
		holder:    holder,
		embedder:  embedder,
		tokenizer: tokenizer,
		reranker:  reranker,
		booster:   booster,
		cache:     queryCache,
		logger:    logger,
	}
}

// SearchOptions tune one query. Zero values fall back to configuration.
type SearchOptions struct {
	Limit    int
	MinScore float64
	Tags     []string      // only documents carrying at least one of these
	Weights  *rank.Weights // optional score remix, bypasses the cache
}

// Search answers one query with at most one result per document.
func (u *Searcher) Search(ctx context.Context, query string, opts SearchOptions) ([]domain.Result, error) {
	snap, err := u.holder.Current()
	if err != nil {
		return nil, err
	}

	// Model mismatch is detected before any scoring happens: similarity
	// between vectors from different models is meaningless.
	if model := u.embedder.ModelName(); snap.Manifest.ModelID != model {
		return nil, fmt.Errorf("%w: index built with model %q, query embedder is %q; rebuild the index",
			domain.ErrConfig, snap.Manifest.ModelID, model)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = u.cfg.Retrieve.TopK
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = u.cfg.Retrieve.MinScore
	}

	var key string
	if u.cache != nil && opts.Weights == nil {
		key = cache.Key(query, limit, minScore, opts.Tags, snap.Manifest.BuiltAt)
		if results, hit := u.cache.Get(key); hit {
			return results, nil
		}
	}

	candidates, err := u.retrieve(ctx, snap, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	rerankK := u.cfg.Retrieve.RerankTopK
	if rerankK <= 0 || rerankK > len(candidates) {
		rerankK = len(candidates)
	}
	failed, err := u.reranker.Rerank(ctx, query, candidates[:rerankK])
	if err != nil {
		return nil, err
	}
	if failed > 0 {
		u.logger.Warn("partial rerank", "failed", failed, "of", rerankK)
	}
	// Below the rerank cutoff the fusion score stands in for the cross
	// encoder, keeping the tail comparable in later stages.
	for i := rerankK; i < len(candidates); i++ {
		candidates[i].Scores.CrossEncoder = candidates[i].Scores.Fusion
	}

	queryTags := mergeQueryTags(opts.Tags, analyzer.ExtractHashtags(query))
	for i := range candidates {
		u.booster.Boost(&candidates[i], queryTags)
	}

	if len(opts.Tags) > 0 {
		candidates = filterByTags(candidates, opts.Tags)
	}

	results := rank.Aggregate(candidates)
	if opts.Weights != nil {
		results = rank.Remix(results, *opts.Weights)
	}
	if minScore > 0 {
		filtered := results[:0]
		for _, r := range results {
			if r.Scores.Final >= minScore {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	if len(results) > limit {
		results = results[:limit]
	}

	if key != "" {
		u.cache.Put(key, results)
	}
	return results, nil
}

// retrieve queries both indexes concurrently and fuses the candidate lists.
func (u *Searcher) retrieve(ctx context.Context, snap *index.Snapshot, query string) ([]domain.ScoredChunk, error) {
	vectors, err := u.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for one query", domain.ErrEmbedding, len(vectors))
	}

	candidateK := u.cfg.Retrieve.CandidateK
	if candidateK <= 0 {
		candidateK = 100
	}

	var (
		wg          sync.WaitGroup
		semantic    []domain.Hit
		lexical     []domain.Hit
		semanticErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		semantic, semanticErr = snap.Embedding.Search(vectors[0], candidateK)
	}()
	go func() {
		defer wg.Done()
		lexical = snap.Lexical.Search(u.tokenizer.Tokenize(query), candidateK)
	}()
	wg.Wait()

	if semanticErr != nil {
		return nil, fmt.Errorf("semantic search: %w", semanticErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fused := rank.FuseRRF(semantic, lexical, candidateK, u.cfg.Retrieve.RRFK)

	candidates := make([]domain.ScoredChunk, 0, len(fused))
	for _, f := range fused {
		chunk, ok := snap.Chunk(f.ChunkID)
		if !ok {
			continue
		}
		doc, _ := snap.Doc(chunk.DocID)
		candidates = append(candidates, domain.ScoredChunk{
			Chunk: chunk,
			Doc:   doc,
			Scores: domain.ScoreSet{
				Semantic: f.Semantic,
				Lexical:  f.Lexical,
				Fusion:   f.Score,
			},
		})
	}
	return candidates, nil
}

// mergeQueryTags combines explicit filter tags and hashtags written inline
// in the query text.
func mergeQueryTags(explicit, inline []string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range [][]string{explicit, inline} {
		for _, tag := range list {
			tag = strings.ToLower(tag)
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}

// filterByTags keeps candidates whose document carries at least one of the
// wanted tags.
func filterByTags(candidates []domain.ScoredChunk, tags []string) []domain.ScoredChunk {
	wanted := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		wanted[strings.ToLower(t)] = struct{}{}
	}

	kept := candidates[:0]
	for _, cand := range candidates {
		for _, t := range cand.Doc.Tags {
			if _, ok := wanted[strings.ToLower(t)]; ok {
				kept = append(kept, cand)
				break
			}
		}
	}
	return kept
}
