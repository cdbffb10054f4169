package domain

import "time"

// Document is a single note, article or book from the vault. The vault owns
// it; the index treats it as immutable input for one build.
type Document struct {
	ID      string
	Path    string
	Title   string
	ModTime time.Time
	Size    int
	Tags    []string
	Kind    string
}

// Chunk is a contiguous substring of one document. Start and End are rune
// offsets into the document text.
type Chunk struct {
	ID    string
	DocID string
	Index int
	Total int
	Start int
	End   int
	Text  string
}

// IndexEntry is the persisted unit: a chunk plus its embedding vector and
// lexical term statistics. Entries are written once per build and replaced
// wholesale on rebuild. Seq preserves build insertion order across reloads.
type IndexEntry struct {
	Chunk      Chunk
	Vector     []float32
	TermFreqs  map[string]int
	TokenCount int
	Seq        int
}

// Hit is one candidate returned by an index query.
type Hit struct {
	ChunkID string
	Score   float64
}

// ScoreSet carries every relevance signal computed for one candidate during
// a single query. It exists so an operator can remix component weights
// without recomputing anything expensive.
type ScoreSet struct {
	Semantic     float64 `json:"semantic"`
	Lexical      float64 `json:"lexical"`
	Fusion       float64 `json:"fusion"`
	CrossEncoder float64 `json:"cross_encoder"`
	TimeBoost    float64 `json:"time_boost"`
	TagBoost     float64 `json:"tag_boost"`
	Final        float64 `json:"final"`
}

// ScoredChunk is a candidate moving through the query pipeline.
type ScoredChunk struct {
	Chunk  Chunk
	Doc    Document
	Scores ScoreSet
}

// Result is one document-level answer. A response list holds at most one
// Result per document id, ordered by descending final score.
type Result struct {
	DocID      string   `json:"doc_id"`
	Title      string   `json:"title"`
	Path       string   `json:"path"`
	Excerpt    string   `json:"excerpt"`
	ChunkIndex int      `json:"chunk_index"`
	ChunkTotal int      `json:"chunk_total"`
	Scores     ScoreSet `json:"scores"`
}

// Posting records one chunk's term frequency for an inverted-index term.
type Posting struct {
	ChunkID string
	TF      int
}

// Stats holds corpus-wide numbers the BM25 scorer needs.
type Stats struct {
	TotalDocs   int
	TotalChunks int
	AvgChunkLen float64
}

// Manifest identifies an index artifact. Querying with an embedder whose
// model name differs from ModelID is a configuration error.
type Manifest struct {
	ModelID         string    `json:"model_id"`
	Dimension       int       `json:"dimension"`
	TotalDocs       int       `json:"total_docs"`
	TotalChunks     int       `json:"total_chunks"`
	ChunkedDocs     int       `json:"chunked_docs"`
	MaxChunksPerDoc int       `json:"max_chunks_per_doc"`
	ConfigHash      string    `json:"config_hash"`
	BuiltAt         time.Time `json:"built_at"`
	SkippedDocs     []string  `json:"skipped_docs,omitempty"`
}
