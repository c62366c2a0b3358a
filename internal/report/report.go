// Package report summarizes scored comments into the sentiment report.
package report

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/IshaanNene/ReviewMiner/internal/analysis"
	"github.com/IshaanNene/ReviewMiner/internal/sentiment"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

const (
	maxNegativeSamples = 10
	maxPositiveSamples = 4

	// negativeTail and positiveTail bound the scores sampled for each side.
	negativeTail = 0.4
	positiveTail = 0.6

	keyTermCount = 8
)

// Band is a half-open score interval [Lo, Hi). The last band includes 1.
type Band struct {
	Name  string
	Range string
	Lo    float64
	Hi    float64
}

// Bands are the fixed score bands, lowest first.
var Bands = []Band{
	{Name: "强烈负面", Range: "0-0.2", Lo: 0, Hi: 0.2},
	{Name: "负面", Range: "0.2-0.4", Lo: 0.2, Hi: 0.4},
	{Name: "轻微负面", Range: "0.4-0.55", Lo: 0.4, Hi: 0.55},
	{Name: "轻微正面", Range: "0.55-0.7", Lo: 0.55, Hi: 0.7},
	{Name: "正面", Range: "0.7-1.0", Lo: 0.7, Hi: math.Inf(1)},
}

// BandOf returns the index of the band containing score.
func BandOf(score float64) int {
	for i, b := range Bands {
		if score < b.Hi {
			return i
		}
	}
	return len(Bands) - 1
}

// Report is the serialized sentiment summary.
type Report struct {
	Overall  Overall          `json:"overall"`
	Negative NegativeAnalysis `json:"negative_analysis"`
	Positive PositiveAnalysis `json:"positive_analysis"`
}

// Overall holds corpus-level statistics.
type Overall struct {
	Records       int         `json:"records"`
	AverageScore  float64     `json:"average_score"`
	NegativeRatio string      `json:"negative_ratio"`
	Rebalanced    bool        `json:"rebalanced"`
	Distribution  []BandShare `json:"distribution"`
}

// BandShare is the share of records falling into one band.
type BandShare struct {
	Band  string `json:"band"`
	Range string `json:"range"`
	Count int    `json:"count"`
	Share string `json:"share"`
}

// NegativeAnalysis describes the low-score tail.
type NegativeAnalysis struct {
	Samples  []string             `json:"samples"`
	KeyTerms []analysis.TermCount `json:"key_terms"`
	Severity string               `json:"severity"`
}

// PositiveAnalysis describes the high-score tail.
type PositiveAnalysis struct {
	Samples  []string             `json:"samples"`
	KeyTerms []analysis.TermCount `json:"key_terms"`
}

// Assembler builds reports. The segmenter is optional; without it no key
// terms are reported.
type Assembler struct {
	seg    *analysis.Segmenter
	logger *slog.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(seg *analysis.Segmenter, logger *slog.Logger) *Assembler {
	return &Assembler{seg: seg, logger: logger.With("component", "report")}
}

// Assemble summarizes a scored batch. An empty batch yields ErrNoRecords.
func (a *Assembler) Assemble(batch *sentiment.Batch) (*Report, error) {
	if batch == nil || len(batch.Records) == 0 {
		return nil, types.ErrNoRecords
	}
	records := batch.Records
	n := float64(len(records))

	counts := make([]int, len(Bands))
	sum := 0.0
	for _, r := range records {
		counts[BandOf(r.Score)]++
		sum += r.Score
	}

	dist := make([]BandShare, len(Bands))
	for i, b := range Bands {
		dist[i] = BandShare{Band: b.Name, Range: b.Range, Count: counts[i], Share: Percent(float64(counts[i]) / n)}
	}

	negRatio := sentiment.NegativeRatio(records)
	negTail := tail(records, func(s float64) bool { return s < negativeTail }, true)
	posTail := tail(records, func(s float64) bool { return s > positiveTail }, false)

	rep := &Report{
		Overall: Overall{
			Records:       len(records),
			AverageScore:  round(sum/n, 3),
			NegativeRatio: Percent(negRatio),
			Rebalanced:    batch.Rebalanced,
			Distribution:  dist,
		},
		Negative: NegativeAnalysis{
			Samples:  texts(negTail, maxNegativeSamples),
			KeyTerms: a.keyTerms(negTail),
			Severity: Severity(negRatio),
		},
		Positive: PositiveAnalysis{
			Samples:  texts(posTail, maxPositiveSamples),
			KeyTerms: a.keyTerms(posTail),
		},
	}

	a.logger.Info("report assembled",
		"records", rep.Overall.Records,
		"average", rep.Overall.AverageScore,
		"negative_ratio", rep.Overall.NegativeRatio,
	)
	return rep, nil
}

// tail returns the records whose score satisfies keep, sorted by score
// (ascending or descending). Ties keep input order.
func tail(records []types.Record, keep func(float64) bool, ascending bool) []types.Record {
	var out []types.Record
	for _, r := range records {
		if keep(r.Score) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].Score < out[j].Score
		}
		return out[i].Score > out[j].Score
	})
	return out
}

func texts(records []types.Record, limit int) []string {
	if len(records) > limit {
		records = records[:limit]
	}
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Text
	}
	return out
}

func (a *Assembler) keyTerms(records []types.Record) []analysis.TermCount {
	if a.seg == nil || len(records) == 0 {
		return []analysis.TermCount{}
	}
	return a.seg.Frequencies(texts(records, len(records))).MostCommon(keyTermCount)
}

// Severity grades the negative ratio.
func Severity(negRatio float64) string {
	switch {
	case negRatio >= 0.7:
		return "严重，需要立即改进"
	case negRatio >= 0.5:
		return "较为严重，需要重点改进"
	case negRatio >= 0.3:
		return "中等，存在改进空间"
	default:
		return "轻微"
	}
}

// Percent formats a ratio with one decimal, e.g. 0.6 -> "60.0%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
