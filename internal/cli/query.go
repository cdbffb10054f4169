package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vaultsearch/config"
	"vaultsearch/internal/adapter/analyzer"
	"vaultsearch/internal/adapter/cache"
	"vaultsearch/internal/adapter/index"
	"vaultsearch/internal/adapter/rank"
	"vaultsearch/internal/adapter/store"
	"vaultsearch/internal/domain"
	"vaultsearch/internal/usecase"
)

var (
	queryText     string
	queryLimit    int
	queryJSON     bool
	queryTags     []string
	queryMinScore float64
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the indexed vault",
	Long: `Answer a natural-language query against the indexed vault. Results come
back one per document, best chunk first, with the full score breakdown
saved for later remixing.

Examples:
  vaultsearch query -q "espresso brewing techniques"
  vaultsearch query -q "quarterly planning" --tag work --limit 5 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().StringSliceVar(&queryTags, "tag", nil, "only documents carrying one of these tags")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", 0, "drop results below this final score")
	queryCmd.MarkFlagRequired("query")
}

// lastQuery is what the query command drops for the remix command: the raw
// score components of the last answer.
type lastQuery struct {
	Query   string          `json:"query"`
	RanAt   time.Time       `json:"ran_at"`
	Results []domain.Result `json:"results"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	dbPath := config.IndexDBPath(vaultDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no index found. Run 'vaultsearch index' first")
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	holder := index.NewHolder()
	if err := usecase.LoadSnapshot(st, cfg, holder); err != nil {
		if errors.Is(err, domain.ErrIndexUnavailable) {
			return fmt.Errorf("no index found. Run 'vaultsearch index' first")
		}
		return err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	encoder, err := buildCrossEncoder(cfg)
	if err != nil {
		return err
	}

	reranker, err := rank.NewReranker(encoder, cfg.Rerank.Concurrency, logger)
	if err != nil {
		return err
	}
	defer reranker.Release()

	searcher := usecase.NewSearcher(
		cfg,
		holder,
		embedder,
		analyzer.NewTokenizer(cfg.Index.Stemming),
		reranker,
		rank.NewBooster(cfg.Boost.HalfLifeDays, cfg.Boost.TimeFloor, cfg.Boost.TagWeight),
		cache.NewQueryCache(cfg.Retrieve.CacheSize, time.Duration(cfg.Retrieve.CacheTTL)*time.Second),
		logger,
	)

	results, err := searcher.Search(cmd.Context(), queryText, usecase.SearchOptions{
		Limit:    queryLimit,
		MinScore: queryMinScore,
		Tags:     queryTags,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	saveLastQuery(queryText, results)

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	printResults(queryText, results)
	return nil
}

// saveLastQuery persists raw scores so 'vaultsearch remix' can replay them.
// Failure to save is not worth failing the query over.
func saveLastQuery(query string, results []domain.Result) {
	data, err := json.MarshalIndent(lastQuery{
		Query:   query,
		RanAt:   time.Now(),
		Results: results,
	}, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(config.LastQueryPath(vaultDir), data, 0644); err != nil {
		logger.Warn("failed to save last query", "err", err)
	}
}

func printResults(query string, results []domain.Result) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), query)
	for i, r := range results {
		fmt.Printf("--- [%d] %s (%s, chunk %d/%d, score: %.3f) ---\n",
			i+1, r.Title, r.Path, r.ChunkIndex+1, r.ChunkTotal, r.Scores.Final)

		excerpt := r.Excerpt
		if len(excerpt) > 500 {
			excerpt = excerpt[:500] + "..."
		}
		fmt.Println(excerpt)
		fmt.Println()
	}
}
