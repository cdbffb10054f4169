package port

import "context"

// Embedder generates dense vector embeddings for text. The model behind it
// is a black box; the core only depends on this contract.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model. Index artifacts are
	// versioned by this identifier.
	ModelName() string
}

// CrossEncoder scores a (query, text) pair jointly. More accurate but far
// more expensive than embedding comparison, so it only ever sees the fused
// top-K candidates.
type CrossEncoder interface {
	// Score returns a relevance score for the pair (higher is better).
	Score(ctx context.Context, query, text string) (float64, error)

	// ModelName returns the name of the scoring model.
	ModelName() string
}
