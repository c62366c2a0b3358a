package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// CSSParser extracts texts using CSS selectors via goquery.
type CSSParser struct {
	logger *slog.Logger
}

// NewCSSParser creates a new CSS selector parser.
func NewCSSParser(logger *slog.Logger) *CSSParser {
	return &CSSParser{
		logger: logger.With("component", "css_parser"),
	}
}

// Texts implements TextParser.
func (p *CSSParser) Texts(html, expr string) ([]string, error) {
	matcher, err := cascadia.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid css selector %q: %w", expr, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var values []string
	doc.FindMatcher(matcher).Each(func(i int, sel *goquery.Selection) {
		if val := normalize(sel.Text()); val != "" {
			values = append(values, val)
		}
	})

	p.logger.Debug("css texts extracted", "selector", expr, "count", len(values))
	return values, nil
}
