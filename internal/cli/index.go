package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"vaultsearch/config"
	"vaultsearch/internal/adapter/analyzer"
	"vaultsearch/internal/adapter/chunker"
	"vaultsearch/internal/adapter/index"
	"vaultsearch/internal/adapter/store"
	"vaultsearch/internal/adapter/vault"
	"vaultsearch/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Build the search index for a vault",
	Long: `Chunk, embed and index every matching document in the vault.
The index artifact is stored in .vaultsearch/index.db within the vault.

Examples:
  vaultsearch index .               # Index current directory
  vaultsearch index ~/notes         # Index a specific vault`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := vaultDir
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	if err := config.EnsureDataDir(path); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	st, err := store.NewBoltStore(config.IndexDBPath(path))
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer st.Close()

	if manifest, ok, err := st.Manifest(); err == nil && ok {
		if rebuild, reason := store.NeedsRebuild(manifest, cfg, embedder.ModelName()); rebuild {
			fmt.Printf("Rebuilding: %s\n", reason)
		}
	}

	tokenizer := analyzer.NewTokenizer(cfg.Index.Stemming)
	windows, err := chunker.NewWindowChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap, cfg.Index.ChunkThreshold)
	if err != nil {
		return err
	}

	v := vault.New(path, cfg.Index.Includes, cfg.Index.Excludes)
	indexer := usecase.NewIndexer(cfg, v, windows, tokenizer, embedder, st, index.NewHolder(), logger)

	fmt.Printf("Scanning %s...\n", path)

	var (
		bar   *progressbar.ProgressBar
		barMu sync.Mutex
	)
	indexer.SetProgress(func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	})

	report, err := indexer.Index(cmd.Context())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Documents indexed: %d\n", report.DocsIndexed)
	fmt.Printf("  Documents skipped: %d\n", report.DocsSkipped)
	fmt.Printf("  Chunks created:    %d\n", report.ChunksCreated)
	fmt.Printf("  Chunked documents: %d (max %d chunks)\n", report.ChunkedDocs, report.MaxChunksPerDoc)

	if len(report.Skipped) > 0 {
		fmt.Printf("\nSkipped:\n")
		for _, id := range report.Skipped {
			fmt.Printf("  - %s\n", id)
		}
	}

	fmt.Printf("\nIndex stored at: %s\n", config.IndexDBPath(path))
	return nil
}
