package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vaultsearch/config"
	"vaultsearch/internal/adapter/rank"
)

var remixWeights rank.Weights

var remixCmd = &cobra.Command{
	Use:   "remix",
	Short: "Re-rank the last query under different score weights",
	Long: `Replay the last query's saved score components under a new weight
combination, without calling any model again. Useful for tuning: the
expensive signals are computed once, then remixed instantly.

The default weights reproduce the normal pipeline ranking. Setting
--time 0 ignores recency entirely; --semantic and --lexical bring the
raw retrieval scores back into the mix.

Examples:
  vaultsearch remix --time 0               # Ignore recency
  vaultsearch remix --cross-encoder 0.5 --lexical 1`,
	RunE: runRemix,
}

func init() {
	rootCmd.AddCommand(remixCmd)
	defaults := rank.DefaultWeights()
	remixCmd.Flags().Float64Var(&remixWeights.Semantic, "semantic", defaults.Semantic, "weight for the raw cosine similarity score")
	remixCmd.Flags().Float64Var(&remixWeights.Lexical, "lexical", defaults.Lexical, "weight for the raw BM25 score")
	remixCmd.Flags().Float64Var(&remixWeights.CrossEncoder, "cross-encoder", defaults.CrossEncoder, "weight for the cross-encoder score")
	remixCmd.Flags().Float64Var(&remixWeights.Time, "time", defaults.Time, "strength of the recency boost, 0 to 1")
	remixCmd.Flags().Float64Var(&remixWeights.Tag, "tag", defaults.Tag, "weight for the tag bonus")
}

func runRemix(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(config.LastQueryPath(vaultDir))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no saved query found. Run 'vaultsearch query' first")
		}
		return err
	}

	var last lastQuery
	if err := json.Unmarshal(data, &last); err != nil {
		return fmt.Errorf("corrupt saved query: %w", err)
	}

	remixed := rank.Remix(last.Results, remixWeights)
	printResults(last.Query, remixed)
	return nil
}
