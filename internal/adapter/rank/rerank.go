package rank

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"vaultsearch/internal/domain"
	"vaultsearch/internal/port"
)

// Reranker rescoring stage: asks the external cross-encoder to score each
// fused candidate against the query. This is the most expensive step of a
// query, so callers hand it only the fused top-K, and calls run on a bounded
// worker pool sized to the model's throughput.
type Reranker struct {
	encoder port.CrossEncoder
	pool    *ants.Pool
	logger  *slog.Logger
}

// NewReranker creates a reranker with the given concurrency limit.
func NewReranker(encoder port.CrossEncoder, concurrency int, logger *slog.Logger) (*Reranker, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, err
	}

	return &Reranker{encoder: encoder, pool: pool, logger: logger}, nil
}

// Rerank fills in each candidate's cross-encoder score in place and returns
// how many candidates fell back. A failed call for one candidate degrades
// gracefully: that candidate keeps its fusion score as the fallback and the
// query continues. Context cancellation aborts the whole rerank.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []domain.ScoredChunk) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	var failed atomic.Int64

	for i := range candidates {
		cand := &candidates[i]
		wg.Add(1)

		err := r.pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			score, err := r.encoder.Score(ctx, query, cand.Chunk.Text)
			if err != nil {
				failed.Add(1)
				cand.Scores.CrossEncoder = cand.Scores.Fusion
				r.logger.Warn("cross-encoder call failed, falling back to fusion score",
					"chunk", cand.Chunk.ID, "err", err)
				return
			}
			cand.Scores.CrossEncoder = score
		})
		if err != nil {
			// Pool refused the task; score inline on the caller's goroutine.
			wg.Done()
			score, serr := r.encoder.Score(ctx, query, cand.Chunk.Text)
			if serr != nil {
				failed.Add(1)
				cand.Scores.CrossEncoder = cand.Scores.Fusion
				continue
			}
			cand.Scores.CrossEncoder = score
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return int(failed.Load()), err
	}
	return int(failed.Load()), nil
}

// ModelName returns the underlying cross-encoder model name.
func (r *Reranker) ModelName() string {
	return r.encoder.ModelName()
}

// Release frees the worker pool.
func (r *Reranker) Release() {
	r.pool.Release()
}
