package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vaultsearch/config"
)

var (
	cfgFile  string
	cfg      *config.Config
	vaultDir string
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vaultsearch",
	Short: "Semantic search over a local note vault",
	Long: `vaultsearch indexes a directory of notes, articles and books, then answers
natural-language queries by combining embedding similarity, BM25 lexical
matching and cross-encoder reranking.

Example usage:
  vaultsearch index .                       # Build the index for the current vault
  vaultsearch query -q "espresso brewing"   # Search the vault
  vaultsearch remix --time 0                # Replay the last query without recency boost`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		// API keys commonly live in a .env next to the vault.
		godotenv.Load()

		if vaultDir == "" {
			vaultDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(vaultDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger = newLogger(cfg.Logging.Level)
		slog.SetDefault(logger)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vaultsearch.yaml)")
	rootCmd.PersistentFlags().StringVarP(&vaultDir, "dir", "d", "", "vault directory (default is current directory)")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
