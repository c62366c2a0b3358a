// Package parser extracts review texts from rendered HTML snapshots.
package parser

import (
	"log/slog"
	"strings"
)

// XPathPrefix marks a selector string as an XPath expression.
const XPathPrefix = "xpath:"

// Kind is the selector language.
type Kind int

const (
	KindCSS Kind = iota
	KindXPath
)

func (k Kind) String() string {
	if k == KindXPath {
		return "xpath"
	}
	return "css"
}

// Selector is a parsed locator string.
type Selector struct {
	Kind Kind
	Expr string
}

// ParseSelector splits an optional "xpath:" prefix off a configured selector.
func ParseSelector(raw string) Selector {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, XPathPrefix) {
		return Selector{Kind: KindXPath, Expr: strings.TrimSpace(strings.TrimPrefix(raw, XPathPrefix))}
	}
	return Selector{Kind: KindCSS, Expr: raw}
}

func (s Selector) String() string {
	if s.Kind == KindXPath {
		return XPathPrefix + s.Expr
	}
	return s.Expr
}

// TextParser returns the trimmed, non-empty texts of every node matched by
// expr, in document order.
type TextParser interface {
	Texts(html, expr string) ([]string, error)
}

// Parser dispatches a configured selector to the CSS or XPath parser.
type Parser struct {
	css   *CSSParser
	xpath *XPathParser
}

// New creates a Parser.
func New(logger *slog.Logger) *Parser {
	return &Parser{
		css:   NewCSSParser(logger),
		xpath: NewXPathParser(logger),
	}
}

// Texts extracts the texts matched by a raw selector string.
func (p *Parser) Texts(html, raw string) ([]string, error) {
	sel := ParseSelector(raw)
	if sel.Kind == KindXPath {
		return p.xpath.Texts(html, sel.Expr)
	}
	return p.css.Texts(html, sel.Expr)
}

// normalize collapses runs of whitespace and trims the result.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
