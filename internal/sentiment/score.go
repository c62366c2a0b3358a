package sentiment

import (
	"log/slog"

	"github.com/IshaanNene/ReviewMiner/internal/pipeline"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

const (
	// PositiveThreshold is the adjusted score above which a record is
	// labeled positive.
	PositiveThreshold = 0.55

	// rebalanceBelow triggers the global rebalancing pass when the negative
	// share is under it.
	rebalanceBelow = 0.5

	// rebalanceFactor scales every score during the rebalancing pass.
	rebalanceFactor = 0.8
)

// Adjust compresses raw scores above 0.5 toward 0.5 and stretches those at or
// below it, then clamps to [0, 1].
func Adjust(raw float64) float64 {
	var adjusted float64
	if raw > 0.5 {
		adjusted = 0.5 + (raw-0.5)*0.4
	} else {
		adjusted = raw * 1.8
	}
	return clamp(adjusted)
}

// Label classifies an adjusted score.
func Label(score float64) types.Label {
	if score > PositiveThreshold {
		return types.Positive
	}
	return types.Negative
}

// NegativeRatio is the share of records labeled negative, 0 when empty.
func NegativeRatio(records []types.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	neg := 0
	for _, r := range records {
		if r.Sentiment == types.Negative {
			neg++
		}
	}
	return float64(neg) / float64(len(records))
}

// Batch is the scored output of one Scorer run.
type Batch struct {
	Records    []types.Record
	Filtered   pipeline.Stats
	Rebalanced bool
}

// Scorer filters comments, scores the survivors and rebalances the labels.
type Scorer struct {
	model  Model
	filter *pipeline.Pipeline
	logger *slog.Logger
}

// NewScorer creates a scorer over model with the standard comment filter.
func NewScorer(model Model, logger *slog.Logger) *Scorer {
	return &Scorer{
		model:  model,
		filter: NewFilter(logger),
		logger: logger.With("component", "sentiment"),
	}
}

// Score produces one record per comment that survives the filter, in input
// order. When fewer than half of the records are negative, every score is
// scaled once by 0.8 and relabeled. The pass is never repeated.
func (s *Scorer) Score(comments []types.Comment) (*Batch, error) {
	kept, stats, err := s.filter.Run(comments)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Records: make([]types.Record, 0, len(kept)), Filtered: stats}
	for _, c := range kept {
		raw := s.model.Score(c.Text)
		score := Adjust(raw)
		batch.Records = append(batch.Records, types.Record{
			Text:      c.Text,
			Raw:       raw,
			Score:     score,
			Sentiment: Label(score),
			Source:    c.Source,
		})
	}

	if len(batch.Records) == 0 {
		s.logger.Warn("no comments left to score", "input", len(comments))
		return batch, nil
	}

	ratio := NegativeRatio(batch.Records)
	s.logger.Info("comments scored", "model", s.model.Name(), "records", len(batch.Records), "negative_ratio", ratio)

	if ratio < rebalanceBelow {
		for i := range batch.Records {
			r := &batch.Records[i]
			r.Score *= rebalanceFactor
			r.Sentiment = Label(r.Score)
		}
		batch.Rebalanced = true
		s.logger.Info("scores rebalanced", "negative_ratio", NegativeRatio(batch.Records))
	}
	return batch, nil
}
