// Package topic fits an LDA topic model over segmented review documents.
package topic

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// TermWeight is a term and its probability within a topic.
type TermWeight struct {
	Term   string
	Weight float64
}

// Topic is the top terms of one topic.
type Topic struct {
	ID    int
	Terms []TermWeight
}

// Result is the outcome of one model fit.
type Result struct {
	Topics []Topic
	// Assignments is the dominant topic of each document.
	Assignments []int
	// Proportions is the share of documents dominated by each topic.
	Proportions []float64
	// TopicTerms is the K × V topic-term distribution, rows sum to 1.
	TopicTerms [][]float64
	// DocTopics is the per-document topic distribution, rows sum to 1.
	DocTopics  [][]float64
	Vocabulary []string
	// TermCounts is the corpus frequency of each vocabulary term.
	TermCounts []int
}

// Modeler fits LDA models with fixed K and a deterministic seed.
type Modeler struct {
	k          int
	topN       int
	seed       int64
	iterations int
	logger     *slog.Logger
}

// NewModeler creates a modeler from the analysis settings.
func NewModeler(cfg config.AnalysisConfig, logger *slog.Logger) *Modeler {
	return &Modeler{
		k:          cfg.TopicCount,
		topN:       cfg.WordsPerTopic,
		seed:       cfg.Seed,
		iterations: cfg.Iterations,
		logger:     logger.With("component", "topic_modeler"),
	}
}

// Fit builds the vocabulary and bag-of-words corpus from docs and fits the
// model. It returns ErrEmptyCorpus when there is nothing to fit and wraps
// ErrModelFit when fitting fails or panics.
func (m *Modeler) Fit(docs [][]string) (res *Result, err error) {
	var nonEmpty [][]string
	for _, doc := range docs {
		if len(doc) > 0 {
			nonEmpty = append(nonEmpty, doc)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, types.ErrEmptyCorpus
	}
	if m.k < 1 {
		return nil, fmt.Errorf("%w: topic count must be >= 1, got %d", types.ErrModelFit, m.k)
	}

	dict := NewDictionary(nonEmpty)
	corpus := make([][]WordCount, len(nonEmpty))
	for i, doc := range nonEmpty {
		corpus[i] = dict.Doc2Bow(doc)
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", types.ErrModelFit, r)
		}
	}()

	lda := nlp.NewLatentDirichletAllocation(m.k)
	lda.Processes = 1
	lda.Rnd = rand.New(rand.NewSource(uint64(m.seed)))
	if m.iterations > 0 {
		lda.Iterations = m.iterations
	}

	docTopics, err := lda.FitTransform(termDocMatrix(dict, corpus))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrModelFit, err)
	}

	res = &Result{
		Vocabulary: dict.Terms(),
		TopicTerms: normalizedRows(lda.Components()),
		DocTopics:  normalizedRows(docTopics.T()),
		TermCounts: termCounts(dict, corpus),
	}
	res.Topics = topTerms(res.TopicTerms, res.Vocabulary, m.topN)
	res.Assignments, res.Proportions = dominant(res.DocTopics, m.k)

	m.logger.Info("topic model fitted",
		"topics", m.k,
		"documents", len(nonEmpty),
		"vocabulary", dict.Len(),
	)
	return res, nil
}

// normalizedRows copies a matrix into rows scaled to sum to 1. All-zero rows
// become uniform.
func normalizedRows(a mat.Matrix) [][]float64 {
	r, c := a.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		sum := 0.0
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			if v < 0 {
				v = 0
			}
			row[j] = v
			sum += v
		}
		for j := range row {
			if sum > 0 {
				row[j] /= sum
			} else {
				row[j] = 1 / float64(c)
			}
		}
		out[i] = row
	}
	return out
}

func topTerms(topicTerms [][]float64, vocab []string, n int) []Topic {
	topics := make([]Topic, len(topicTerms))
	for k, row := range topicTerms {
		idx := make([]int, len(row))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return row[idx[a]] > row[idx[b]] })
		if n > 0 && n < len(idx) {
			idx = idx[:n]
		}
		terms := make([]TermWeight, len(idx))
		for i, id := range idx {
			terms[i] = TermWeight{Term: vocab[id], Weight: row[id]}
		}
		topics[k] = Topic{ID: k, Terms: terms}
	}
	return topics
}

// dominant returns the arg-max topic of each document and the share of
// documents per topic. Ties go to the lower topic index.
func dominant(docTopics [][]float64, k int) ([]int, []float64) {
	assignments := make([]int, len(docTopics))
	counts := make([]float64, k)
	for d, dist := range docTopics {
		best := 0
		for t := 1; t < len(dist); t++ {
			if dist[t] > dist[best] {
				best = t
			}
		}
		assignments[d] = best
		counts[best]++
	}
	for t := range counts {
		counts[t] /= float64(len(docTopics))
	}
	return assignments, counts
}

func termCounts(d *Dictionary, corpus [][]WordCount) []int {
	counts := make([]int, d.Len())
	for _, bow := range corpus {
		for _, wc := range bow {
			counts[wc.ID] += wc.Count
		}
	}
	return counts
}
