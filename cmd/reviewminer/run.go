package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/ReviewMiner/internal/automation"
	"github.com/IshaanNene/ReviewMiner/internal/browser"
	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/crawler"
	"github.com/IshaanNene/ReviewMiner/internal/storage"
	"github.com/IshaanNene/ReviewMiner/internal/types"
	"github.com/IshaanNene/ReviewMiner/internal/visualize"
)

var productURL string

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Log in, crawl one product's reviews and analyse them",
		Long: `Open a browser, wait for a manual login, ask for the product URL, crawl its
reviews page by page and run the full analysis on the collected comments.`,
		Args: cobra.NoArgs,
		RunE: runCrawl,
	}
	cmd.Flags().StringVarP(&productURL, "url", "u", "", "product URL (prompted when empty)")
	return cmd
}

// runCrawl executes the run command.
func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		consoleLogger(nil).Error("configuration error", "error", err)
		return err
	}

	// A missing font is fatal; find out before the operator spends time
	// logging in.
	renderer, err := visualize.NewRenderer(cfg.Visualization, consoleLogger(cfg))
	if err != nil {
		consoleLogger(cfg).Error("font unavailable", "error", err)
		return err
	}

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	comments, target, status, err := sess.crawl(ctx, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			sess.logger.Warn("interrupted by user")
			return nil
		}
		return err
	}
	if len(comments) == 0 {
		sess.logger.Error("no comments collected, nothing to analyse", "status", status)
		return nil
	}
	sess.logger.Info("comments collected", "count", len(comments), "status", status)

	records := sess.analyze(ctx, renderer, comments, cmd.OutOrStdout())
	sess.export(ctx, &storage.RunDocument{
		Run:        sess.run.Name,
		CreatedAt:  time.Now().UTC(),
		ProductURL: target,
		Status:     status.String(),
		Comments:   comments,
		Sentiment:  records,
	})
	return nil
}

// crawl opens the browser, waits for the login, reads the product URL and
// collects its comments. The browser is closed before returning. Only
// session construction, an invalid URL and cancellation are errors; a crawl
// that stops early still returns what it collected.
func (s *session) crawl(ctx context.Context, in io.Reader, prompt io.Writer) ([]types.Comment, string, crawler.Status, error) {
	var opts []browser.Option
	if dir := s.cfg.Crawler.UserDataDir; dir != "" {
		opts = append(opts, browser.WithUserDataDir(dir))
	}
	if bin := s.cfg.Crawler.BrowserBin; bin != "" {
		opts = append(opts, browser.WithBin(bin))
	}

	bs, err := browser.Open(ctx, s.cfg.Crawler, s.logger, opts...)
	if err != nil {
		s.logger.Error("browser session unavailable", "error", err)
		return nil, "", crawler.StatusFailed, err
	}
	defer bs.Close()

	nav := automation.NewBrowserAutomation(automation.NewPage(bs.Page()), s.cfg.Crawler, s.logger)
	crawlOpts := []crawler.Option{crawler.WithSource(s.run.Name)}
	if s.cfg.Crawler.Snapshots {
		crawlOpts = append(crawlOpts, crawler.WithSnapshots(storage.NewSnapshotWriter(s.run.SnapshotsDir(), s.logger)))
	}
	c := crawler.New(nav, s.cfg.Crawler, s.logger, crawlOpts...)

	s.logger.Info("starting login")
	if err := c.Login(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, "", crawler.StatusCancelled, ctx.Err()
		}
		s.logger.Warn("login page failed, continuing without login", "error", err)
	}

	target := productURL
	if target == "" {
		target, err = promptURL(in, prompt)
		if err != nil {
			return nil, "", crawler.StatusFailed, err
		}
	}
	if err := config.ValidateURL(target); err != nil {
		s.logger.Error("invalid product url", "url", target, "error", err)
		return nil, target, crawler.StatusFailed, fmt.Errorf("invalid URL %q: %w", target, err)
	}

	s.logger.Info("crawling reviews", "url", target)
	res := c.Crawl(ctx, target)
	if res.Status == crawler.StatusCancelled && res.Batch.Len() == 0 {
		return nil, target, res.Status, res.Err
	}
	return res.Batch.Comments(), target, res.Status, nil
}

// promptURL asks once for the product URL on in.
func promptURL(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "\n请输入淘宝商品URL：")
	line, err := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read product url: %w", err)
		}
		return "", types.ErrEmptyURL
	}
	return line, nil
}
