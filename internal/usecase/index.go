package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"vaultsearch/config"
	"vaultsearch/internal/adapter/analyzer"
	"vaultsearch/internal/adapter/index"
	"vaultsearch/internal/adapter/store"
	"vaultsearch/internal/domain"
	"vaultsearch/internal/port"
)

// Indexer drives a full index build: list the vault, chunk and embed every
// document on a worker pool, persist the artifact and swap the fresh
// snapshot in. A build replaces the previous one wholesale.
type Indexer struct {
	cfg       *config.Config
	vault     port.Vault
	chunker   port.Chunker
	tokenizer *analyzer.Tokenizer
	embedder  port.Embedder
	artifacts port.IndexStore
	holder    *index.Holder
	logger    *slog.Logger
	progress  func(done, total int)
}

// NewIndexer creates an indexer.
func NewIndexer(
	cfg *config.Config,
	vault port.Vault,
	chunker port.Chunker,
	tokenizer *analyzer.Tokenizer,
	embedder port.Embedder,
	artifacts port.IndexStore,
	holder *index.Holder,
	logger *slog.Logger,
) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		cfg:       cfg,
		vault:     vault,
		chunker:   chunker,
		tokenizer: tokenizer,
		embedder:  embedder,
		artifacts: artifacts,
		holder:    holder,
		logger:    logger,
	}
}

// SetProgress installs a callback invoked after each document finishes.
func (u *Indexer) SetProgress(fn func(done, total int)) {
	u.progress = fn
}

// IndexReport contains the results of one build.
type IndexReport struct {
	DocsIndexed     int
	DocsSkipped     int
	ChunksCreated   int
	ChunkedDocs     int
	MaxChunksPerDoc int
	Skipped         []string
}

type docResult struct {
	entries []domain.IndexEntry
	err     error
}

// Index runs a full build. Configuration is validated before any document is
// touched. A document whose embedding fails is skipped and recorded; the
// build carries on with the rest.
func (u *Indexer) Index(ctx context.Context) (*IndexReport, error) {
	if err := u.cfg.Validate(); err != nil {
		return nil, err
	}

	docs, err := u.vault.List()
	if err != nil {
		return nil, fmt.Errorf("list vault: %w", err)
	}

	workers := u.cfg.Index.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	u.logger.Info("starting index build",
		"docs", len(docs), "workers", workers, "model", u.embedder.ModelName())

	results := make([]docResult, len(docs))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for i := range docs {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = u.processDoc(ctx, docs[i])

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			if u.progress != nil {
				u.progress(n, len(docs))
			}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = docResult{err: submitErr}
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge in vault order so entry sequence is stable across runs.
	report := &IndexReport{}
	var (
		kept    []domain.Document
		entries []domain.IndexEntry
	)
	for i, doc := range docs {
		res := results[i]
		if res.err != nil {
			report.DocsSkipped++
			report.Skipped = append(report.Skipped, doc.ID)
			u.logger.Warn("skipping document", "doc", doc.ID, "err", res.err)
			continue
		}

		kept = append(kept, doc)
		report.DocsIndexed++
		report.ChunksCreated += len(res.entries)
		if len(res.entries) > 1 {
			report.ChunkedDocs++
		}
		if len(res.entries) > report.MaxChunksPerDoc {
			report.MaxChunksPerDoc = len(res.entries)
		}
		for _, entry := range res.entries {
			entry.Seq = len(entries)
			entries = append(entries, entry)
		}
	}

	manifest := domain.Manifest{
		ModelID:         u.embedder.ModelName(),
		Dimension:       u.embedder.Dimension(),
		TotalDocs:       report.DocsIndexed,
		TotalChunks:     report.ChunksCreated,
		ChunkedDocs:     report.ChunkedDocs,
		MaxChunksPerDoc: report.MaxChunksPerDoc,
		ConfigHash:      store.ComputeConfigHash(u.cfg),
		BuiltAt:         time.Now(),
		SkippedDocs:     report.Skipped,
	}

	if err := u.artifacts.WriteBuild(manifest, kept, entries); err != nil {
		return nil, fmt.Errorf("persist build: %w", err)
	}

	snap, err := index.BuildSnapshot(manifest, kept, entries, u.cfg.Index.K1, u.cfg.Index.B)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	u.holder.Swap(snap)

	u.logger.Info("index build complete",
		"indexed", report.DocsIndexed,
		"skipped", report.DocsSkipped,
		"chunks", report.ChunksCreated,
		"max_chunks_per_doc", report.MaxChunksPerDoc)

	return report, nil
}

// processDoc turns one document into index entries.
func (u *Indexer) processDoc(ctx context.Context, doc domain.Document) docResult {
	if err := ctx.Err(); err != nil {
		return docResult{err: err}
	}

	text, err := u.vault.ReadText(doc.ID)
	if err != nil {
		return docResult{err: fmt.Errorf("read text: %w", err)}
	}

	chunks, err := u.chunker.Chunk(doc.ID, text)
	if err != nil {
		return docResult{err: fmt.Errorf("chunk: %w", err)}
	}
	if len(chunks) == 0 {
		return docResult{}
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := u.embedTexts(ctx, texts)
	if err != nil {
		return docResult{err: fmt.Errorf("embed: %w", err)}
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, c := range chunks {
		freqs, tokens := u.tokenizer.TermFreqs(c.Text)
		entries[i] = domain.IndexEntry{
			Chunk:      c,
			Vector:     vectors[i],
			TermFreqs:  freqs,
			TokenCount: tokens,
		}
	}
	return docResult{entries: entries}
}

// embedTexts embeds texts in batches of the configured size.
func (u *Indexer) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := u.cfg.Embedding.BatchSize
	if batchSize < 1 {
		batchSize = len(texts)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := u.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: got %d vectors for %d texts",
				domain.ErrEmbedding, len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// LoadSnapshot restores the snapshot from a previously persisted build. It is
// how a query process comes up without re-indexing.
func LoadSnapshot(artifacts port.IndexStore, cfg *config.Config, holder *index.Holder) error {
	_, ok, err := artifacts.Manifest()
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	if !ok {
		return domain.ErrIndexUnavailable
	}

	manifest, docs, entries, err := artifacts.LoadBuild()
	if err != nil {
		return fmt.Errorf("load build: %w", err)
	}

	snap, err := index.BuildSnapshot(manifest, docs, entries, cfg.Index.K1, cfg.Index.B)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	holder.Swap(snap)
	return nil
}
