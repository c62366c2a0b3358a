package topic

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

var reviewDocs = [][]string{
	{"物流", "很快", "包装", "完好"},
	{"物流", "速度", "很快", "快递"},
	{"快递", "包装", "破损"},
	{"质量", "不错", "面料", "舒服"},
	{"面料", "质量", "做工", "不错"},
	{"做工", "精细", "质量", "很好"},
	{"客服", "态度", "不好", "退货"},
	{"客服", "回复", "退货", "麻烦"},
	{"退货", "客服", "态度", "差劲"},
}

func testModelConfig() config.AnalysisConfig {
	cfg := config.DefaultConfig().Analysis
	cfg.TopicCount = 3
	cfg.WordsPerTopic = 5
	cfg.Iterations = 50
	return cfg
}

func TestDictionaryAndBow(t *testing.T) {
	d := NewDictionary([][]string{{"物流", "包装", "物流"}, {"质量", "包装"}})

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"物流", "包装", "质量"}, d.Terms())
	id, ok := d.ID("质量")
	require.True(t, ok)
	assert.Equal(t, "质量", d.Term(id))

	bow := d.Doc2Bow([]string{"包装", "物流", "包装", "未知"})
	assert.Equal(t, []WordCount{{ID: 1, Count: 2}, {ID: 0, Count: 1}}, bow)
}

func TestFitEmptyCorpus(t *testing.T) {
	m := NewModeler(testModelConfig(), testLogger)

	_, err := m.Fit(nil)
	assert.True(t, errors.Is(err, types.ErrEmptyCorpus))

	_, err = m.Fit([][]string{{}, {}})
	assert.True(t, errors.Is(err, types.ErrEmptyCorpus))
}

func TestFitInvalidTopicCount(t *testing.T) {
	cfg := testModelConfig()
	cfg.TopicCount = 0
	_, err := NewModeler(cfg, testLogger).Fit(reviewDocs)
	assert.True(t, errors.Is(err, types.ErrModelFit))
}

func TestFitShape(t *testing.T) {
	m := NewModeler(testModelConfig(), testLogger)

	res, err := m.Fit(reviewDocs)
	require.NoError(t, err)

	require.Len(t, res.Topics, 3)
	for _, topic := range res.Topics {
		assert.LessOrEqual(t, len(topic.Terms), 5)
		for i := 1; i < len(topic.Terms); i++ {
			assert.GreaterOrEqual(t, topic.Terms[i-1].Weight, topic.Terms[i].Weight)
		}
	}

	require.Len(t, res.Assignments, len(reviewDocs))
	for _, a := range res.Assignments {
		assert.True(t, a >= 0 && a < 3)
	}

	sum := 0.0
	for _, p := range res.Proportions {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	for _, row := range res.TopicTerms {
		rowSum := 0.0
		for _, w := range row {
			rowSum += w
		}
		assert.InDelta(t, 1.0, rowSum, 1e-9)
	}
	assert.Len(t, res.Vocabulary, len(res.TopicTerms[0]))
}

func TestFitDeterministic(t *testing.T) {
	first, err := NewModeler(testModelConfig(), testLogger).Fit(reviewDocs)
	require.NoError(t, err)
	second, err := NewModeler(testModelConfig(), testLogger).Fit(reviewDocs)
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Topics, second.Topics)
}

func TestRows(t *testing.T) {
	res := &Result{
		Topics: []Topic{
			{ID: 0, Terms: []TermWeight{{"物流", 0.1234}, {"包装", 0.05}}},
			{ID: 1, Terms: []TermWeight{{"质量", 0.2}}},
		},
		Proportions: []float64{0.375, 0.625},
	}

	rows := res.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Label: "主题 1", Terms: "物流 (0.123) | 包装 (0.050)", Share: "37.5%"}, rows[0])
	assert.Equal(t, "62.5%", rows[1].Share)
	assert.Equal(t, []string{"主题 1", "主题 2"}, res.Names())
	assert.Equal(t, []string{"主题 2", "质量 (0.200)", "62.5%"}, res.Records()[1])
}

func TestJensenShannon(t *testing.T) {
	p := []float64{0.5, 0.5, 0}
	assert.InDelta(t, 0.0, JensenShannon(p, p), 1e-12)
	assert.InDelta(t, 1.0, JensenShannon([]float64{1, 0}, []float64{0, 1}), 1e-12)

	q := []float64{0.1, 0.3, 0.6}
	assert.InDelta(t, JensenShannon(p, q), JensenShannon(q, p), 1e-12)
}

func TestIntertopicMap(t *testing.T) {
	res := &Result{
		TopicTerms: [][]float64{
			{0.9, 0.05, 0.05},
			{0.05, 0.9, 0.05},
			{0.05, 0.05, 0.9},
		},
		DocTopics: [][]float64{{1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}

	points := res.IntertopicMap()
	require.Len(t, points, 3)

	sizes := 0.0
	for _, p := range points {
		sizes += p.Size
	}
	assert.InDelta(t, 1.0, sizes, 1e-9)
	assert.InDelta(t, 0.5, points[0].Size, 1e-9)

	dist := func(a, b Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }
	assert.Greater(t, dist(points[0], points[1]), 0.1)
	// Symmetric topics land at equal distances from each other.
	assert.InDelta(t, dist(points[0], points[1]), dist(points[1], points[2]), 1e-6)
}
