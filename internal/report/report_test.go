package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/ReviewMiner/internal/analysis"
	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/sentiment"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type spaceCutter struct{}

func (spaceCutter) Cut(text string, _ ...bool) []string { return strings.Fields(text) }

func batchOf(scores []float64, textFor func(i int, s float64) string) *sentiment.Batch {
	b := &sentiment.Batch{}
	for i, s := range scores {
		b.Records = append(b.Records, types.Record{Text: textFor(i, s), Score: s, Sentiment: sentiment.Label(s)})
	}
	return b
}

var tenScores = []float64{0.1, 0.15, 0.3, 0.35, 0.45, 0.5, 0.6, 0.65, 0.75, 0.9}

func scoreText(_ int, s float64) string {
	if s < 0.4 {
		return "饼干 碎了 包装 破损"
	}
	if s > 0.6 {
		return "味道 正宗 包装 精美"
	}
	return "一般 般"
}

func TestAssembleDistribution(t *testing.T) {
	rep, err := NewAssembler(nil, testLogger).Assemble(batchOf(tenScores, scoreText))
	require.NoError(t, err)

	assert.Equal(t, 10, rep.Overall.Records)
	assert.Equal(t, "60.0%", rep.Overall.NegativeRatio)
	assert.InDelta(t, 0.475, rep.Overall.AverageScore, 1e-9)

	require.Len(t, rep.Overall.Distribution, 5)
	for _, b := range rep.Overall.Distribution {
		assert.Equal(t, 2, b.Count, b.Band)
		assert.Equal(t, "20.0%", b.Share, b.Band)
	}
	assert.Equal(t, "强烈负面", rep.Overall.Distribution[0].Band)
	assert.Equal(t, "较为严重，需要重点改进", rep.Negative.Severity)
	assert.Empty(t, rep.Negative.KeyTerms)
}

func TestAssembleSamplesOrdered(t *testing.T) {
	shuffled := []float64{0.65, 0.1, 0.9, 0.35, 0.5, 0.15, 0.75, 0.3}
	rep, err := NewAssembler(nil, testLogger).Assemble(batchOf(shuffled, func(i int, _ float64) string {
		return strconv.Itoa(i)
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "5", "7", "3"}, rep.Negative.Samples)
	assert.Equal(t, []string{"2", "6", "0"}, rep.Positive.Samples)
}

func TestAssembleSampleCaps(t *testing.T) {
	scores := make([]float64, 0, 30)
	for i := 0; i < 15; i++ {
		scores = append(scores, 0.1, 0.95)
	}
	rep, err := NewAssembler(nil, testLogger).Assemble(batchOf(scores, scoreText))
	require.NoError(t, err)

	assert.Len(t, rep.Negative.Samples, 10)
	assert.Len(t, rep.Positive.Samples, 4)
	assert.Equal(t, "50.0%", rep.Overall.NegativeRatio)
}

func TestAssembleEmpty(t *testing.T) {
	_, err := NewAssembler(nil, testLogger).Assemble(&sentiment.Batch{})
	assert.True(t, errors.Is(err, types.ErrNoRecords))

	_, err = NewAssembler(nil, testLogger).Assemble(nil)
	assert.True(t, errors.Is(err, types.ErrNoRecords))
}

func TestAssembleKeyTerms(t *testing.T) {
	seg := analysis.NewSegmenterWith(spaceCutter{}, config.DefaultConfig().Analysis, testLogger)
	rep, err := NewAssembler(seg, testLogger).Assemble(batchOf(tenScores, scoreText))
	require.NoError(t, err)

	require.NotEmpty(t, rep.Negative.KeyTerms)
	assert.Equal(t, analysis.TermCount{Term: "包装", Count: 4}, rep.Negative.KeyTerms[0])
	require.NotEmpty(t, rep.Positive.KeyTerms)
	assert.Equal(t, analysis.TermCount{Term: "包装", Count: 3}, rep.Positive.KeyTerms[0])
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		score float64
		band  int
	}{
		{0, 0}, {0.1999, 0}, {0.2, 1}, {0.4, 2}, {0.55, 3}, {0.6999, 3}, {0.7, 4}, {1, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, BandOf(tt.score), "score %v", tt.score)
	}
}

func TestReportJSONKeys(t *testing.T) {
	rep, err := NewAssembler(nil, testLogger).Assemble(batchOf(tenScores, scoreText))
	require.NoError(t, err)

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"overall", "negative_analysis", "positive_analysis"}, keys)
}

func TestPrint(t *testing.T) {
	rep, err := NewAssembler(nil, testLogger).Assemble(batchOf(tenScores, scoreText))
	require.NoError(t, err)

	var buf bytes.Buffer
	Print(&buf, rep)
	out := buf.String()
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "强烈负面")
	assert.Contains(t, out, "典型负面评论")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "60.0%", Percent(0.6))
	assert.Equal(t, "33.3%", Percent(1.0/3))
	assert.Equal(t, "0.0%", Percent(0))
}
