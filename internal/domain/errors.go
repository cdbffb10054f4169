package domain

import "errors"

// Error taxonomy for the retrieval core. Callers test with errors.Is; call
// sites add context by wrapping with fmt.Errorf("...: %w", err).
var (
	// ErrConfig marks invalid chunking parameters or a model identifier
	// mismatch between the index artifact and the configured embedder.
	// Surfaced before any work begins.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmbedding marks a failed or timed-out embedding call. During
	// indexing the offending document is skipped and recorded; during
	// querying the whole request fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrRerank marks a failed cross-encoder call for one candidate. It is
	// recovered locally: the candidate keeps its fusion score.
	ErrRerank = errors.New("rerank failed")

	// ErrIndexUnavailable is returned for queries arriving before any
	// successful index build.
	ErrIndexUnavailable = errors.New("index not built yet")
)
