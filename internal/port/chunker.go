package port

import "vaultsearch/internal/domain"

type Chunker interface {
	Chunk(docID, text string) ([]domain.Chunk, error)
}
