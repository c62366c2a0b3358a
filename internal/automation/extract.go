package automation

import (
	"context"
	"log/slog"
	"time"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/parser"
)

// Document is a rendered page that can be waited on and snapshotted.
type Document interface {
	// WaitFor blocks until at least one element matches selector, or the
	// timeout elapses (error).
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	HTML() (string, error)
}

// Extractor reads review texts from the current page.
type Extractor struct {
	settle  time.Duration
	timeout time.Duration
	parser  parser.TextParser
	logger  *slog.Logger
}

// NewExtractor creates an extractor that waits settle before looking and up to
// timeout per selector.
func NewExtractor(settle, timeout time.Duration, logger *slog.Logger) *Extractor {
	return &Extractor{
		settle:  settle,
		timeout: timeout,
		parser:  parser.New(logger),
		logger:  logger.With("component", "extractor"),
	}
}

// Extract waits for the page to settle, then returns the texts of the first
// selector that matches anything. Later selectors are never consulted once one
// matched, even if all its texts are blank or the snapshot cannot be read;
// such failures yield an empty result. The only error returned is context
// cancellation.
func (x *Extractor) Extract(ctx context.Context, doc Document, target config.Target) ([]string, error) {
	if err := Sleep(ctx, x.settle); err != nil {
		return nil, err
	}

	for _, sel := range target.Selectors {
		if err := doc.WaitFor(ctx, sel, x.timeout); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			x.logger.Debug("no match", "selector", sel)
			continue
		}

		// The selector matched, so it owns the result even when reading it fails.
		html, err := doc.HTML()
		if err != nil {
			x.logger.Warn("page snapshot failed", "selector", sel, "error", err)
			return nil, nil
		}
		texts, err := x.parser.Texts(html, sel)
		if err != nil {
			x.logger.Warn("extraction failed", "selector", sel, "error", err)
			return nil, nil
		}
		x.logger.Debug("extracted", "selector", sel, "count", len(texts))
		return texts, nil
	}
	return nil, nil
}
