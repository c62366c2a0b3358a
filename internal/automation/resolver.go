package automation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/IshaanNene/ReviewMiner/internal/config"
)

// Element is a located DOM element that can be clicked.
type Element interface {
	// Text returns the rendered (visible) text.
	Text() (string, error)
	ScrollIntoView() error
	// ScriptClick dispatches a click from page script.
	ScriptClick() error
	// NativeClick performs a real mouse click.
	NativeClick() error
}

// Finder locates elements for a configured selector string, in DOM order.
// It does not wait for elements to appear.
type Finder interface {
	Find(ctx context.Context, selector string) ([]Element, error)
}

// Resolver clicks logical UI targets through their selector fallback chain.
type Resolver struct {
	finder Finder
	pacer  *Pacer
	logger *slog.Logger
}

// NewResolver creates a resolver.
func NewResolver(finder Finder, pacer *Pacer, logger *slog.Logger) *Resolver {
	return &Resolver{
		finder: finder,
		pacer:  pacer,
		logger: logger.With("component", "resolver"),
	}
}

// Click tries the target's selectors in order and, within each selector, the
// matched elements in DOM order. The first element whose text contains any of
// the target's substrings (any element when none are configured) is scrolled
// into view and clicked, by script first and natively on failure. It returns
// true on the first successful click and false when nothing could be clicked.
func (r *Resolver) Click(ctx context.Context, name string, target config.Target) bool {
	for _, sel := range target.Selectors {
		if ctx.Err() != nil {
			return false
		}

		elements, err := r.finder.Find(ctx, sel)
		if err != nil {
			r.logger.Debug("selector failed", "target", name, "selector", sel, "error", err)
			continue
		}

		for i, el := range elements {
			if !r.accepts(el, target.Text) {
				continue
			}

			if err := el.ScrollIntoView(); err != nil {
				r.logger.Debug("scroll into view failed", "target", name, "selector", sel, "error", err)
			}
			if err := r.pacer.Pause(ctx); err != nil {
				return false
			}

			err := el.ScriptClick()
			if err == nil {
				r.logger.Debug("clicked", "target", name, "selector", sel, "index", i, "method", "script")
				return true
			}
			r.logger.Debug("script click failed", "target", name, "selector", sel, "error", err)

			if err = el.NativeClick(); err == nil {
				r.logger.Debug("clicked", "target", name, "selector", sel, "index", i, "method", "native")
				return true
			}
			r.logger.Debug("native click failed", "target", name, "selector", sel, "error", err)
		}
	}

	r.logger.Info("target not found", "target", name, "selectors", len(target.Selectors))
	return false
}

func (r *Resolver) accepts(el Element, substrings []string) bool {
	if len(substrings) == 0 {
		return true
	}
	text, err := el.Text()
	if err != nil {
		return false
	}
	return containsAny(text, substrings)
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}
