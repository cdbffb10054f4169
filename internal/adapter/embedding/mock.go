package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
)

// MockEmbedder produces deterministic pseudo-embeddings without a model.
// Texts sharing words land near each other, which is enough for tests and
// offline smoke runs.
type MockEmbedder struct {
	dimension int
}

// NewMockEmbedder creates a mock embedder with the given dimension.
func NewMockEmbedder(dimension int) *MockEmbedder {
	if dimension <= 0 {
		dimension = 64
	}
	return &MockEmbedder{dimension: dimension}
}

// Embed hashes each word of each text into a bucket of the vector and
// normalizes the result to unit length.
func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dimension)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			h := sha256.Sum256([]byte(word))
			bucket := int(binary.BigEndian.Uint32(h[:4])) % m.dimension
			if bucket < 0 {
				bucket += m.dimension
			}
			vec[bucket]++
		}

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if norm > 0 {
			scale := float32(1 / math.Sqrt(norm))
			for j := range vec {
				vec[j] *= scale
			}
		}
		vectors[i] = vec
	}

	return vectors, nil
}

// Dimension returns the embedding vector dimension.
func (m *MockEmbedder) Dimension() int {
	return m.dimension
}

// ModelName returns the mock model identifier.
func (m *MockEmbedder) ModelName() string {
	return "mock-embed"
}

// MockCrossEncoder scores pairs by query-term overlap. Deterministic and
// offline; a stand-in for a real reranking model.
type MockCrossEncoder struct{}

// NewMockCrossEncoder creates a mock cross-encoder.
func NewMockCrossEncoder() *MockCrossEncoder {
	return &MockCrossEncoder{}
}

// Score returns the fraction of query words present in the text.
func (m *MockCrossEncoder) Score(ctx context.Context, query, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0, nil
	}

	textWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		textWords[w] = struct{}{}
	}

	matches := 0
	for _, w := range queryWords {
		if _, ok := textWords[w]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(queryWords)), nil
}

// ModelName returns the mock model identifier.
func (m *MockCrossEncoder) ModelName() string {
	return "mock-cross-encoder"
}
