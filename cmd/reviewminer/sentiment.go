package main

import (
	"github.com/spf13/cobra"

	"github.com/IshaanNene/ReviewMiner/internal/analysis"
	"github.com/IshaanNene/ReviewMiner/internal/output"
	"github.com/IshaanNene/ReviewMiner/internal/sentiment"
	"github.com/IshaanNene/ReviewMiner/internal/visualize"
)

var runPrefix string

// sentimentCmd creates the "sentiment" subcommand.
func sentimentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Score the comments of saved runs",
		Long: `Load data/comments.txt from every run whose name starts with --prefix, score
them and write the sentiment report and charts into the newest of those runs.`,
		Args: cobra.NoArgs,
		RunE: runSentiment,
	}
	cmd.Flags().StringVarP(&runPrefix, "prefix", "p", "", "only load runs whose name starts with this (e.g. 20250221_)")
	return cmd
}

func runSentiment(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		consoleLogger(nil).Error("configuration error", "error", err)
		return err
	}
	console := consoleLogger(cfg)

	renderer, err := visualize.NewRenderer(cfg.Visualization, console)
	if err != nil {
		console.Error("font unavailable", "error", err)
		return err
	}

	comments, latest, err := sentiment.LoadComments(cfg.Output, runPrefix, console)
	if err != nil {
		console.Error("no comments to score", "error", err)
		return err
	}

	run, err := output.OpenRun(cfg.Output, latest)
	if err != nil {
		return err
	}
	sess, err := attachSession(cfg, run)
	if err != nil {
		return err
	}
	defer sess.logs.Close()

	seg, err := analysis.NewSegmenter(cfg.Analysis, sess.logger)
	if err != nil {
		sess.stageFailed("segmentation", err)
	}
	sess.sentiment(renderer, seg, comments, cmd.OutOrStdout())
	sess.logger.Info("sentiment analysis finished", "dir", run.Dir)
	return nil
}
