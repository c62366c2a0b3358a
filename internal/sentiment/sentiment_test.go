package sentiment

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/storage"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type spaceCutter struct{}

func (spaceCutter) Cut(text string, _ ...bool) []string { return strings.Fields(text) }

func TestIsTemplated(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"too short", "好评", true},
		{"seven runes", "一二三四五六七", true},
		{"short template", "质量很好，物流很快", true},
		{"long template without detail", "这次买的东西真的很好用，朋友们都说我眼光不错呢哈哈", true},
		{"long template with detail", "包装很好，味道也非常正宗，口感酥脆不腻，价格也合适，下次还会再买", false},
		{"plain complaint", "收到的时候盒子已经压扁了，里面的饼干碎了一半", false},
		{"short complaint", "饼干碎了一半很失望", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTemplated(tt.text))
		})
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		raw, want float64
	}{
		{1.0, 0.7},
		{0.9, 0.66},
		{0.6, 0.54},
		{0.5, 0.9},
		{0.2, 0.36},
		{0.0, 0.0},
		{-0.2, 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Adjust(tt.raw), 1e-9, "raw %v", tt.raw)
	}
}

func TestLabelThreshold(t *testing.T) {
	assert.Equal(t, types.Negative, Label(0.55))
	assert.Equal(t, types.Positive, Label(0.5501))
	assert.Equal(t, types.Negative, Label(0))
}

func commentsOf(texts ...string) []types.Comment {
	out := make([]types.Comment, len(texts))
	for i, t := range texts {
		out[i] = types.Comment{Text: t, Source: "run"}
	}
	return out
}

func fixedModel(scores map[string]float64) Model {
	return ModelFunc(func(text string) float64 { return scores[text] })
}

func TestScorerRebalancesOnce(t *testing.T) {
	model := fixedModel(map[string]float64{
		"第一条评论的具体内容": 0.9,
		"第二条评论的具体内容": 0.9,
		"第三条评论的具体内容": 0.9,
		"第四条评论的具体内容": 0.2,
	})
	in := commentsOf(
		"第一条评论的具体内容",
		"好评",
		"此用户没有填写评价",
		"质量很好，物流很快",
		"第二条评论的具体内容",
		"第三条评论的具体内容",
		"第四条评论的具体内容",
	)

	batch, err := NewScorer(model, testLogger).Score(in)
	require.NoError(t, err)
	require.Len(t, batch.Records, 4)

	assert.True(t, batch.Rebalanced)
	assert.Equal(t, "第一条评论的具体内容", batch.Records[0].Text)
	assert.InDelta(t, 0.528, batch.Records[0].Score, 1e-9)
	assert.InDelta(t, 0.288, batch.Records[3].Score, 1e-9)
	for _, r := range batch.Records {
		assert.Equal(t, types.Negative, r.Sentiment)
		assert.Equal(t, "run", r.Source)
	}
	assert.Equal(t, 1.0, NegativeRatio(batch.Records))

	assert.Equal(t, 7, batch.Filtered.In)
	assert.Equal(t, 1, batch.Filtered.Dropped["min_length"])
	assert.Equal(t, 1, batch.Filtered.Dropped["placeholder"])
	assert.Equal(t, 1, batch.Filtered.Dropped["templated"])
}

func TestScorerKeepsNegativeMajority(t *testing.T) {
	model := fixedModel(map[string]float64{
		"第一条评论的具体内容": 0.2,
		"第二条评论的具体内容": 0.2,
		"第三条评论的具体内容": 0.9,
	})
	batch, err := NewScorer(model, testLogger).Score(commentsOf(
		"第一条评论的具体内容", "第二条评论的具体内容", "第三条评论的具体内容",
	))
	require.NoError(t, err)

	assert.False(t, batch.Rebalanced)
	assert.InDelta(t, 0.66, batch.Records[2].Score, 1e-9)
	assert.Equal(t, types.Positive, batch.Records[2].Sentiment)
	assert.InDelta(t, 2.0/3.0, NegativeRatio(batch.Records), 1e-9)
}

func TestScorerEmptyAfterFilter(t *testing.T) {
	batch, err := NewScorer(fixedModel(nil), testLogger).Score(commentsOf("好评", "赞"))
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
	assert.False(t, batch.Rebalanced)
	assert.Equal(t, 0.0, NegativeRatio(nil))
}

func TestScoresStayInRange(t *testing.T) {
	for raw := -0.5; raw <= 1.5; raw += 0.01 {
		s := Adjust(raw)
		assert.True(t, s >= 0 && s <= 1, "Adjust(%v) = %v", raw, s)
		assert.True(t, s*rebalanceFactor >= 0 && s*rebalanceFactor <= 1)
	}
}

func TestAdjustMonotonicAboveMidpoint(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < 10000; i++ {
		a := 0.5 + rng.Float64()*0.5
		b := 0.5 + rng.Float64()*0.5
		if a > b {
			a, b = b, a
		}
		adjA, adjB := Adjust(a), Adjust(b)

		assert.LessOrEqual(t, adjA, adjB, "Adjust(%v) > Adjust(%v)", a, b)
		assert.GreaterOrEqual(t, adjA, 0.5+(a-0.5)*0.4-1e-12, "Adjust(%v) under the compression floor", a)
		assert.True(t, adjA >= 0.5 && adjA <= 0.7, "Adjust(%v) = %v", a, adjA)
	}
}

func TestAdjustRangeRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 11))
	for i := 0; i < 10000; i++ {
		raw := rng.Float64()*2 - 0.5
		s := Adjust(raw)
		assert.True(t, s >= 0 && s <= 1, "Adjust(%v) = %v", raw, s)
		if raw <= 0.5 {
			assert.GreaterOrEqual(t, s, min(max(raw, 0), 1), "Adjust(%v) lowered a non-positive-side score", raw)
		}
	}
}

func TestLexiconModel(t *testing.T) {
	m, err := NewLexiconModel(spaceCutter{})
	require.NoError(t, err)

	assert.Equal(t, 0.5, m.Score("今天 下雨"))
	assert.Greater(t, m.Score("质量 好"), 0.5)
	assert.Greater(t, m.Score("质量 很 好"), m.Score("质量 好"))
	assert.Less(t, m.Score("质量 不 好"), 0.5)
	assert.Less(t, m.Score("难吃 失望"), m.Score("难吃"))
	assert.Less(t, m.Score("饼干 碎了， 很 失望！"), 0.5)
}

func TestParseLexiconRejectsBadLines(t *testing.T) {
	_, err := parseLexicon("好\tabc\n")
	assert.Error(t, err)
	_, err = parseLexicon("好 1.0\n")
	assert.Error(t, err)

	w, err := parseLexicon("# comment\n\n好\t1.5\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"好": 1.5}, w)
}

func TestVaderModel(t *testing.T) {
	m := NewVaderModel()
	assert.Greater(t, m.Score("Great product, I love it!"), 0.5)
	assert.Less(t, m.Score("Terrible quality, awful and broken."), 0.5)
}

func TestAutoModelRoutes(t *testing.T) {
	m := NewAutoModel(ModelFunc(func(string) float64 { return 0.1 }), ModelFunc(func(string) float64 { return 0.9 }))
	assert.Equal(t, 0.1, m.Score("味道一般"))
	assert.Equal(t, 0.1, m.Score("good 但是贵"))
	assert.Equal(t, 0.9, m.Score("fast shipping"))
}

func TestLoadComments(t *testing.T) {
	cfg := config.DefaultConfig().Output
	cfg.BaseDir = t.TempDir()

	write := func(run string, texts ...string) {
		path := filepath.Join(cfg.BaseDir, run, cfg.Subdirs.Data, cfg.FileNames.Comments)
		require.NoError(t, storage.WriteComments(path, commentsOf(texts...)))
	}
	write("20250221_101500", "一", "二")
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.BaseDir, "20250221_121500"), 0o755))
	write("20250301_080000", "三")

	comments, latest, err := LoadComments(cfg, "20250221_", testLogger)
	require.NoError(t, err)
	assert.Equal(t, "20250221_101500", latest)
	require.Len(t, comments, 2)
	assert.Equal(t, "20250221_101500", comments[0].Source)

	comments, latest, err = LoadComments(cfg, "", testLogger)
	require.NoError(t, err)
	assert.Equal(t, "20250301_080000", latest)
	assert.Len(t, comments, 3)

	_, _, err = LoadComments(cfg, "2024", testLogger)
	assert.True(t, errors.Is(err, types.ErrNoComments))
}
