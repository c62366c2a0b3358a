package pipeline

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// TrimMiddleware trims surrounding whitespace and drops blank comments.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(c *types.Comment) (*types.Comment, error) {
	c.Text = strings.TrimSpace(c.Text)
	if c.Text == "" {
		return nil, nil
	}
	return c, nil
}

// HTMLSanitizeMiddleware strips markup left in comment text and decodes
// entities.
type HTMLSanitizeMiddleware struct {
	stripRe *regexp.Regexp
}

func NewHTMLSanitizeMiddleware() *HTMLSanitizeMiddleware {
	return &HTMLSanitizeMiddleware{
		stripRe: regexp.MustCompile(`<[^>]*>`),
	}
}

func (m *HTMLSanitizeMiddleware) Name() string { return "html_sanitize" }

func (m *HTMLSanitizeMiddleware) Process(c *types.Comment) (*types.Comment, error) {
	if !strings.ContainsAny(c.Text, "<&") {
		return c, nil
	}
	cleaned := m.stripRe.ReplaceAllString(c.Text, "")
	cleaned = html.UnescapeString(cleaned)
	c.Text = strings.Join(strings.Fields(cleaned), " ")
	return c, nil
}

// PlaceholderMiddleware drops the shop's "no review written" placeholders.
type PlaceholderMiddleware struct{}

func (m *PlaceholderMiddleware) Name() string { return "placeholder" }

func (m *PlaceholderMiddleware) Process(c *types.Comment) (*types.Comment, error) {
	if types.IsPlaceholder(c.Text) {
		return nil, nil
	}
	return c, nil
}

// MinLengthMiddleware drops comments shorter than Runes characters.
type MinLengthMiddleware struct {
	Runes int
}

func (m *MinLengthMiddleware) Name() string { return "min_length" }

func (m *MinLengthMiddleware) Process(c *types.Comment) (*types.Comment, error) {
	if utf8.RuneCountInString(strings.TrimSpace(c.Text)) < m.Runes {
		return nil, nil
	}
	return c, nil
}

// RejectMiddleware drops comments for which Match returns true.
type RejectMiddleware struct {
	Label string
	Match func(text string) bool
}

func (m *RejectMiddleware) Name() string { return m.Label }

func (m *RejectMiddleware) Process(c *types.Comment) (*types.Comment, error) {
	if m.Match(c.Text) {
		return nil, nil
	}
	return c, nil
}
