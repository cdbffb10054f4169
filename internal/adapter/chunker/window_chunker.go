package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"vaultsearch/internal/domain"
)

// WindowChunker splits oversized document text into overlapping fixed-width
// character windows that fit the embedding model's input limit. Documents at
// or below the threshold pass through as a single chunk.
type WindowChunker struct {
	chunkSize int
	overlap   int
	threshold int
}

// NewWindowChunker creates a WindowChunker. overlap must be strictly smaller
// than chunkSize (forward progress) and threshold strictly larger than
// chunkSize (the passthrough fast path must cover at least one full window).
func NewWindowChunker(chunkSize, overlap, threshold int) (*WindowChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfig, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrConfig, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)",
			domain.ErrConfig, overlap, chunkSize)
	}
	if threshold <= chunkSize {
		return nil, fmt.Errorf("%w: threshold (%d) must be larger than chunk size (%d)",
			domain.ErrConfig, threshold, chunkSize)
	}
	return &WindowChunker{
		chunkSize: chunkSize,
		overlap:   overlap,
		threshold: threshold,
	}, nil
}

// Chunk splits text into chunks. Offsets are rune offsets; the same text and
// parameters always yield identical boundaries.
func (c *WindowChunker) Chunk(docID, text string) ([]domain.Chunk, error) {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil, nil
	}

	if n <= c.threshold {
		chunk := domain.Chunk{
			ID:    chunkID(docID, 0, n),
			DocID: docID,
			Start: 0,
			End:   n,
			Text:  text,
		}
		return finalize([]domain.Chunk{chunk}), nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]domain.Chunk, 0, n/step+1)

	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, domain.Chunk{
			ID:    chunkID(docID, start, end),
			DocID: docID,
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
		if end == n {
			break
		}
	}

	return finalize(chunks), nil
}

// finalize stamps index and total. The total is only known once the whole
// split is done, so this runs as a second pass.
func finalize(chunks []domain.Chunk) []domain.Chunk {
	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = len(chunks)
	}
	return chunks
}

func chunkID(docID string, start, end int) string {
	data := fmt.Sprintf("%s:%d-%d", docID, start, end)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
