// Package crawler drives the review pages of one product: it opens the
// reviews view, extracts each page and paginates under a page ceiling and a
// consecutive-empty-page ceiling.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IshaanNene/ReviewMiner/internal/automation"
	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// Target names used in logs.
const (
	TargetShowAll  = "show_all"
	TargetNextPage = "next_page"
)

// Navigator is the page surface the crawler drives.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
	URL() string
	// Click resolves a target through its selector chain; false means no
	// candidate could be clicked.
	Click(ctx context.Context, name string, target config.Target) bool
	// Extract returns the review texts of the current page. It only fails
	// when ctx is done.
	Extract(ctx context.Context, target config.Target) ([]string, error)
	HTML() (string, error)
}

// SnapshotWriter stores the markup of pages that yielded no reviews.
type SnapshotWriter interface {
	WriteSnapshot(name, html string) (string, error)
}

// Result is the outcome of one crawl. Batch always holds every comment
// extracted before the crawl stopped, whatever the status.
type Result struct {
	Batch      *types.Batch
	Status     Status
	Pages      int
	EmptyPages int
	Err        error
}

// Crawler runs the review pagination state machine.
type Crawler struct {
	nav       Navigator
	cfg       config.CrawlerConfig
	pacer     *automation.Pacer
	snapshots SnapshotWriter
	source    string
	logger    *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithPacer replaces the pacer built from crawler.wait_time.
func WithPacer(p *automation.Pacer) Option {
	return func(c *Crawler) { c.pacer = p }
}

// WithSnapshots stores empty pages through w.
func WithSnapshots(w SnapshotWriter) Option {
	return func(c *Crawler) { c.snapshots = w }
}

// WithSource tags every collected comment.
func WithSource(source string) Option {
	return func(c *Crawler) { c.source = source }
}

// New creates a crawler over nav.
func New(nav Navigator, cfg config.CrawlerConfig, logger *slog.Logger, opts ...Option) *Crawler {
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 1
	}
	if cfg.RetryTimes < 1 {
		cfg.RetryTimes = 1
	}
	c := &Crawler{
		nav:    nav,
		cfg:    cfg,
		pacer:  automation.NewPacer(cfg.WaitTime.Min, cfg.WaitTime.Max),
		logger: logger.With("component", "crawler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login opens the login page and blocks for crawler.login_timeout while the
// operator signs in by hand. Success is not verified.
func (c *Crawler) Login(ctx context.Context) error {
	if c.cfg.LoginURL == "" {
		c.logger.Info("no login url configured, skipping login")
		return nil
	}
	if err := c.nav.Navigate(ctx, c.cfg.LoginURL); err != nil {
		return &types.NavigationError{URL: c.cfg.LoginURL, Err: err}
	}
	c.logger.Info("complete the login in the browser window", "timeout", c.cfg.LoginTimeout)
	return automation.Sleep(ctx, c.cfg.LoginTimeout)
}

// Crawl collects the reviews of productURL.
func (c *Crawler) Crawl(ctx context.Context, productURL string) *Result {
	res := &Result{Batch: types.NewBatch()}
	logger := c.logger.With("url", productURL)

	if strings.TrimSpace(productURL) == "" {
		return c.finish(res, StatusFailed, types.ErrEmptyURL)
	}

	logger.Info("opening product page")
	if err := c.nav.Navigate(ctx, productURL); err != nil {
		if ctx.Err() != nil {
			return c.finish(res, StatusCancelled, ctx.Err())
		}
		return c.finish(res, StatusFailed, &types.NavigationError{URL: productURL, Err: err})
	}
	if err := c.pacer.Pause(ctx); err != nil {
		return c.finish(res, StatusCancelled, err)
	}

	ok, err := c.openReviews(ctx, productURL)
	if err != nil {
		return c.finish(res, StatusCancelled, err)
	}
	if !ok {
		logger.Warn("reviews view could not be opened, nothing to crawl")
		return c.finish(res, StatusNoReviewsView, types.ErrNoReviewsView)
	}

	return c.paginate(ctx, res)
}

// paginate runs the FETCHING / SUCCESS_PAGE / EMPTY_PAGE / ADVANCING loop.
// Every FETCHING step either consumes a page (bounded by max_pages) or adds
// to the consecutive empty count (bounded by retry_times), so it terminates.
func (c *Crawler) paginate(ctx context.Context, res *Result) *Result {
	var (
		state    = StateFetching
		retries  int
		texts    []string
		extracts int
	)

	for {
		if err := ctx.Err(); err != nil {
			return c.finish(res, StatusCancelled, err)
		}

		switch state {
		case StateFetching:
			var err error
			extracts++
			texts, err = c.nav.Extract(ctx, c.cfg.Targets.Reviews)
			if err != nil {
				return c.finish(res, StatusCancelled, err)
			}
			if len(texts) > 0 {
				state = StateSuccessPage
			} else {
				state = StateEmptyPage
			}

		case StateSuccessPage:
			page := res.Pages + 1
			added := c.appendPage(res.Batch, texts, page)
			res.Pages = page
			retries = 0
			c.logger.Info("page extracted",
				"page", page,
				"found", len(texts),
				"kept", added,
				"total", res.Batch.Len(),
			)
			if res.Pages >= c.cfg.MaxPages {
				return c.finish(res, StatusPageLimitReached, nil)
			}
			state = StateAdvancing

		case StateEmptyPage:
			retries++
			res.EmptyPages++
			c.logger.Warn("no reviews on page",
				"page", res.Pages+1,
				"retry", retries,
				"retry_times", c.cfg.RetryTimes,
			)
			c.snapshot(fmt.Sprintf("page%03d_try%d", res.Pages+1, retries))
			if retries >= c.cfg.RetryTimes {
				return c.finish(res, StatusRetryLimitReached, nil)
			}
			if err := c.pacer.Pause(ctx); err != nil {
				return c.finish(res, StatusCancelled, err)
			}
			state = StateFetching

		case StateAdvancing:
			if !c.nav.Click(ctx, TargetNextPage, c.cfg.Targets.NextPage) {
				if err := ctx.Err(); err != nil {
					return c.finish(res, StatusCancelled, err)
				}
				c.logger.Info("no next page control, last page reached", "pages", res.Pages)
				return c.finish(res, StatusExhausted, nil)
			}
			if err := c.pacer.Pause(ctx); err != nil {
				return c.finish(res, StatusCancelled, err)
			}
			state = StateFetching
		}

		c.logger.Debug("transition", "state", state, "pages", res.Pages, "retries", retries, "extracts", extracts)
	}
}

// openReviews switches the product page to the full reviews view, trying the
// show_all target and then direct navigation to the reviews path, up to
// retry_times times.
func (c *Crawler) openReviews(ctx context.Context, productURL string) (bool, error) {
	reviewsURL := ReviewsURL(productURL, c.cfg.ReviewsPath)

	for attempt := 1; attempt <= c.cfg.RetryTimes; attempt++ {
		if c.nav.Click(ctx, TargetShowAll, c.cfg.Targets.ShowAll) {
			return true, c.pacer.Pause(ctx)
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}

		c.logger.Info("show-all control not found, opening reviews page directly",
			"attempt", attempt,
			"reviews_url", reviewsURL,
		)
		err := c.nav.Navigate(ctx, reviewsURL)
		if err == nil {
			return true, c.pacer.Pause(ctx)
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		c.logger.Warn("reviews page navigation failed", "attempt", attempt, "error", err)
	}
	return false, nil
}

func (c *Crawler) appendPage(b *types.Batch, texts []string, page int) int {
	added := 0
	for _, text := range texts {
		comment, ok := types.NewComment(text, c.source)
		if !ok {
			continue
		}
		comment.Page = page
		b.Append(comment)
		added++
	}
	return added
}

func (c *Crawler) snapshot(name string) {
	if c.snapshots == nil {
		return
	}
	html, err := c.nav.HTML()
	if err != nil {
		c.logger.Warn("snapshot failed", "name", name, "error", err)
		return
	}
	path, err := c.snapshots.WriteSnapshot(name, html)
	if err != nil {
		c.logger.Warn("snapshot failed", "name", name, "error", err)
		return
	}
	c.logger.Debug("empty page saved", "path", path)
}

func (c *Crawler) finish(res *Result, status Status, err error) *Result {
	res.Status = status
	res.Err = err

	attrs := []any{"status", status, "pages", res.Pages, "comments", res.Batch.Len(), "empty_pages", res.EmptyPages}
	switch {
	case status.Complete():
		c.logger.Info("crawl finished", attrs...)
	case res.Batch.Len() > 0:
		c.logger.Warn("crawl stopped early", append(attrs, "error", err)...)
	default:
		c.logger.Error("crawl collected no comments", append(attrs, "error", err)...)
	}
	return res
}

// ReviewsURL derives the reviews page from a product URL: the query is
// dropped and path appended ("…/item.htm?id=1" → "…/item.htm/rate.htm").
func ReviewsURL(productURL, path string) string {
	base := strings.SplitN(productURL, "?", 2)[0]
	base = strings.TrimRight(base, "/")
	return base + "/" + strings.TrimLeft(path, "/")
}
