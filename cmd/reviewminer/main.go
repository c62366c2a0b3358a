package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree. Running the root command without a
// subcommand starts a full crawl.
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reviewminer",
		Short: "ReviewMiner: Taobao review crawler and analyzer",
		Long: `ReviewMiner collects the buyer reviews of one Taobao product through a real
browser session and analyses them.

Each run writes to output/<YYYYMMDD_HHMMSS>/:
  • comments, word frequencies and topic summaries (data/)
  • word clouds, topic and sentiment charts (visualization/)
  • a sentiment report with negative and positive samples
  • info.log and error.log (logs/)`,
		SilenceUsage: true,
		RunE:         runCrawl,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "config file path")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&productURL, "url", "u", "", "product URL (prompted when empty)")

	root.AddCommand(runCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(sentimentCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())
	return root
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ReviewMiner %s\n", config.Version)
		},
	}
}

// loadConfig opens the config store and validates it eagerly. Missing
// required keys and invalid values are fatal.
func loadConfig() (*config.Config, *config.Store, error) {
	store, err := config.Open(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := config.ValidateStore(store)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, store, nil
}

// consoleLogger creates the stderr logger used before a run directory exists.
func consoleLogger(cfg *config.Config) *slog.Logger {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return logging.New(logging.Console(cfg.Logging, verbose))
}
