package sentiment

import (
	"bufio"
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/jonreiter/govader"

	"github.com/IshaanNene/ReviewMiner/internal/analysis"
)

// Model maps a comment to a raw sentiment score in [0, 1], where 1 is most
// positive and 0.5 is neutral.
type Model interface {
	Name() string
	Score(text string) float64
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(text string) float64

func (f ModelFunc) Name() string              { return "func" }
func (f ModelFunc) Score(text string) float64 { return f(text) }

// VaderModel scores text with VADER, mapping the compound score onto [0, 1].
type VaderModel struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderModel creates a VADER-backed model.
func NewVaderModel() *VaderModel {
	return &VaderModel{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (m *VaderModel) Name() string { return "vader" }

func (m *VaderModel) Score(text string) float64 {
	compound := m.analyzer.PolarityScores(text).Compound
	return clamp((compound + 1) / 2)
}

//go:embed data/lexicon_zh.tsv
var lexiconData string

var negations = map[string]bool{
	"不": true, "没": true, "没有": true, "无": true, "非": true,
	"别": true, "不是": true, "未": true, "毫无": true, "并不": true,
}

var degrees = map[string]float64{
	"很": 1.3, "非常": 1.6, "特别": 1.6, "太": 1.5, "超": 1.5, "超级": 1.7,
	"十分": 1.5, "极": 1.8, "极其": 1.8, "最": 1.7, "挺": 1.2, "比较": 1.1,
	"有点": 0.7, "有些": 0.7, "稍微": 0.6, "略": 0.6,
}

// modifierWindow is how many plain tokens a negation or degree word stays
// in effect before it is forgotten.
const modifierWindow = 3

// LexiconModel scores Chinese text with a weighted word list, negation words
// and degree adverbs. The summed polarity is squashed with a logistic curve.
type LexiconModel struct {
	cutter  analysis.Cutter
	weights map[string]float64
}

// NewLexiconModel creates a model over the embedded lexicon.
func NewLexiconModel(cutter analysis.Cutter) (*LexiconModel, error) {
	weights, err := parseLexicon(lexiconData)
	if err != nil {
		return nil, err
	}
	return &LexiconModel{cutter: cutter, weights: weights}, nil
}

func parseLexicon(data string) (map[string]float64, error) {
	weights := make(map[string]float64)
	sc := bufio.NewScanner(strings.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, raw, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("lexicon line %d: missing weight", line)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		weights[strings.TrimSpace(word)] = w
	}
	return weights, sc.Err()
}

func (m *LexiconModel) Name() string { return "lexicon" }

// Score returns 0.5 when no lexicon word occurs.
func (m *LexiconModel) Score(text string) float64 {
	var (
		total  float64
		hits   int
		negate bool
		degree = 1.0
		idle   int
	)
	reset := func() { negate, degree, idle = false, 1.0, 0 }

	for _, tok := range m.cutter.Cut(analysis.Clean(text), true) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if negations[tok] {
			negate = !negate
			idle = 0
			continue
		}
		if d, ok := degrees[tok]; ok {
			degree *= d
			idle = 0
			continue
		}
		w, ok := m.weights[tok]
		if !ok {
			if idle++; idle >= modifierWindow {
				reset()
			}
			continue
		}
		v := w * degree
		if negate {
			v = -v * 0.75
		}
		total += v
		hits++
		reset()
	}

	if hits == 0 {
		return 0.5
	}
	return 1 / (1 + math.Exp(-total))
}

// AutoModel routes text containing Han characters to the Chinese model and
// everything else to the fallback.
type AutoModel struct {
	chinese  Model
	fallback Model
}

// NewAutoModel creates a routing model.
func NewAutoModel(chinese, fallback Model) *AutoModel {
	return &AutoModel{chinese: chinese, fallback: fallback}
}

// DefaultModel is the lexicon model over the shared gse segmenter with VADER
// for non-Chinese text.
func DefaultModel() (*AutoModel, error) {
	cutter, err := analysis.DefaultCutter()
	if err != nil {
		return nil, err
	}
	lex, err := NewLexiconModel(cutter)
	if err != nil {
		return nil, err
	}
	return NewAutoModel(lex, NewVaderModel()), nil
}

func (m *AutoModel) Name() string {
	return m.chinese.Name() + "+" + m.fallback.Name()
}

func (m *AutoModel) Score(text string) float64 {
	if hasHan(text) {
		return m.chinese.Score(text)
	}
	return m.fallback.Score(text)
}

func hasHan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
