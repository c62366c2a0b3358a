package automation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/parser"
)

// nativeClickTimeout bounds rod's wait for an element to become clickable.
const nativeClickTimeout = 5 * time.Second

// Page adapts a Rod page to Finder and Document.
type Page struct {
	page *rod.Page
}

// NewPage wraps a Rod page.
func NewPage(page *rod.Page) *Page {
	return &Page{page: page}
}

// Navigate loads url and waits for the load event.
func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// URL returns the current page URL, or "" when unknown.
func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Find implements Finder.
func (p *Page) Find(ctx context.Context, selector string) ([]Element, error) {
	sel := parser.ParseSelector(selector)
	page := p.page.Context(ctx)

	var (
		found rod.Elements
		err   error
	)
	if sel.Kind == parser.KindXPath {
		found, err = page.ElementsX(sel.Expr)
	} else {
		found, err = page.Elements(sel.Expr)
	}
	if err != nil {
		return nil, err
	}

	elements := make([]Element, len(found))
	for i, el := range found {
		elements[i] = &rodElement{el: el}
	}
	return elements, nil
}

// WaitFor implements Document.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	sel := parser.ParseSelector(selector)
	page := p.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	var err error
	if sel.Kind == parser.KindXPath {
		_, err = page.ElementX(sel.Expr)
	} else {
		_, err = page.Element(sel.Expr)
	}
	return err
}

// HTML implements Document.
func (p *Page) HTML() (string, error) {
	return p.page.HTML()
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) ScrollIntoView() error {
	return e.el.ScrollIntoView()
}

func (e *rodElement) ScriptClick() error {
	_, err := e.el.Eval(`() => this.click()`)
	return err
}

func (e *rodElement) NativeClick() error {
	return e.el.Timeout(nativeClickTimeout).Click(proto.InputMouseButtonLeft, 1)
}

// Surface is everything BrowserAutomation needs from a page.
type Surface interface {
	Finder
	Document
	Navigate(ctx context.Context, url string) error
	URL() string
}

// BrowserAutomation combines target resolution, extraction and navigation on
// one page.
type BrowserAutomation struct {
	surface   Surface
	resolver  *Resolver
	extractor *Extractor
	logger    *slog.Logger
}

// NewBrowserAutomation wraps a page with the crawler's configured pacing and
// timeouts.
func NewBrowserAutomation(surface Surface, cfg config.CrawlerConfig, logger *slog.Logger) *BrowserAutomation {
	pacer := NewPacer(cfg.WaitTime.Min, cfg.WaitTime.Max)
	return &BrowserAutomation{
		surface:   surface,
		resolver:  NewResolver(surface, pacer, logger),
		extractor: NewExtractor(cfg.SettleDelay, cfg.ElementTimeout, logger),
		logger:    logger.With("component", "browser_automation"),
	}
}

// Navigate loads url.
func (ba *BrowserAutomation) Navigate(ctx context.Context, url string) error {
	ba.logger.Debug("navigating", "url", url)
	if err := ba.surface.Navigate(ctx, url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// URL returns the current page URL.
func (ba *BrowserAutomation) URL() string {
	return ba.surface.URL()
}

// Click resolves and clicks a logical target.
func (ba *BrowserAutomation) Click(ctx context.Context, name string, target config.Target) bool {
	return ba.resolver.Click(ctx, name, target)
}

// Extract returns the review texts on the current page.
func (ba *BrowserAutomation) Extract(ctx context.Context, target config.Target) ([]string, error) {
	return ba.extractor.Extract(ctx, ba.surface, target)
}

// HTML returns the current page markup.
func (ba *BrowserAutomation) HTML() (string, error) {
	return ba.surface.HTML()
}
