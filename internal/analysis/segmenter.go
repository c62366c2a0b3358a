// Package analysis segments review text and counts term frequencies.
package analysis

import (
	_ "embed"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-ego/gse"

	"github.com/IshaanNene/ReviewMiner/internal/config"
)

// nonWord matches every rune that is not a letter, mark, digit, underscore or
// whitespace. Go's \w is ASCII-only, so the classes are spelled out.
var nonWord = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]+`)

// Cutter splits text into words.
type Cutter interface {
	Cut(text string, hmm ...bool) []string
}

// splitCompounds lists dictionary entries that join a review aspect with its
// attribute ("商品质量"). They are removed so the parts are counted.
//
//go:embed data/split_zh.txt
var splitCompounds string

var loadGSE = sync.OnceValues(func() (*gse.Segmenter, error) {
	seg := &gse.Segmenter{SkipLog: true}
	if err := seg.LoadDictEmbed(); err != nil {
		return nil, fmt.Errorf("load segmentation dictionary: %w", err)
	}
	for _, word := range compoundList(splitCompounds) {
		// Entries missing from the dictionary report an error; nothing to undo.
		_ = seg.RemoveToken(word)
	}
	return seg, nil
})

// compoundList parses one word per line, skipping blanks and # comments.
func compoundList(data string) []string {
	var words []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}

// DefaultCutter returns the shared gse segmenter with the embedded Chinese
// dictionary. The dictionary is loaded once per process.
func DefaultCutter() (Cutter, error) {
	seg, err := loadGSE()
	if err != nil {
		return nil, err
	}
	return seg, nil
}

// Segmenter cleans, cuts and filters review text.
type Segmenter struct {
	cutter    Cutter
	minLen    int
	stopwords map[string]struct{}
	logger    *slog.Logger
}

// NewSegmenter creates a segmenter backed by the shared gse dictionary.
func NewSegmenter(cfg config.AnalysisConfig, logger *slog.Logger) (*Segmenter, error) {
	cutter, err := DefaultCutter()
	if err != nil {
		return nil, err
	}
	return NewSegmenterWith(cutter, cfg, logger), nil
}

// NewSegmenterWith creates a segmenter over any Cutter.
func NewSegmenterWith(cutter Cutter, cfg config.AnalysisConfig, logger *slog.Logger) *Segmenter {
	minLen := cfg.MinWordLength
	if minLen < 1 {
		minLen = 1
	}
	stop := make(map[string]struct{}, len(cfg.Stopwords))
	for _, w := range cfg.Stopwords {
		stop[w] = struct{}{}
	}
	return &Segmenter{
		cutter:    cutter,
		minLen:    minLen,
		stopwords: stop,
		logger:    logger.With("component", "segmenter"),
	}
}

// WithStopwords returns a copy of the segmenter with extra stopwords.
func (s *Segmenter) WithStopwords(extra ...string) *Segmenter {
	stop := make(map[string]struct{}, len(s.stopwords)+len(extra))
	for w := range s.stopwords {
		stop[w] = struct{}{}
	}
	for _, w := range extra {
		stop[w] = struct{}{}
	}
	return &Segmenter{cutter: s.cutter, minLen: s.minLen, stopwords: stop, logger: s.logger}
}

// Cutter returns the underlying word cutter.
func (s *Segmenter) Cutter() Cutter {
	return s.cutter
}

// Clean removes punctuation and symbols, keeping words and whitespace.
func Clean(text string) string {
	return nonWord.ReplaceAllString(text, "")
}

// Tokens cleans and cuts text and filters the result.
func (s *Segmenter) Tokens(text string) []string {
	return s.FilterTokens(s.cutter.Cut(Clean(text), true))
}

// FilterTokens drops blank tokens, tokens shorter than the minimum word
// length (in runes) and stopwords. It is idempotent.
func (s *Segmenter) FilterTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		if utf8.RuneCountInString(tok) < s.minLen {
			continue
		}
		if _, stop := s.stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Frequencies counts the surviving tokens of all comments joined by spaces.
func (s *Segmenter) Frequencies(comments []string) Frequencies {
	freq := make(Frequencies)
	if len(comments) == 0 {
		s.logger.Warn("no comments to analyse")
		return freq
	}
	for _, tok := range s.Tokens(strings.Join(comments, " ")) {
		freq[tok]++
	}
	s.logger.Info("word frequencies counted", "distinct", len(freq), "total", freq.Total())
	return freq
}

// Documents returns one token list per comment, dropping comments with no
// surviving tokens.
func (s *Segmenter) Documents(comments []string) [][]string {
	docs := make([][]string, 0, len(comments))
	for _, c := range comments {
		if toks := s.Tokens(c); len(toks) > 0 {
			docs = append(docs, toks)
		}
	}
	s.logger.Debug("documents segmented", "comments", len(comments), "documents", len(docs))
	return docs
}
