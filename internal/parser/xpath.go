package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// XPathParser extracts texts using XPath expressions.
type XPathParser struct {
	logger *slog.Logger
}

// NewXPathParser creates a new XPath parser.
func NewXPathParser(logger *slog.Logger) *XPathParser {
	return &XPathParser{
		logger: logger.With("component", "xpath_parser"),
	}
}

// Texts implements TextParser.
func (p *XPathParser) Texts(body, expr string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}

	var values []string
	for _, node := range nodes {
		if val := normalize(htmlquery.InnerText(node)); val != "" {
			values = append(values, val)
		}
	}

	p.logger.Debug("xpath texts extracted", "selector", expr, "count", len(values))
	return values, nil
}
