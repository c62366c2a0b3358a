package visualize

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/IshaanNene/ReviewMiner/internal/sentiment"
	"github.com/IshaanNene/ReviewMiner/internal/topic"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

var (
	positiveColor = drawing.ColorFromHex("FFD700")
	negativeColor = drawing.ColorFromHex("B8860B")
	histColor     = drawing.ColorFromHex("4C72B0")
)

func chartColor(i int) drawing.Color {
	r, g, b, a := palette[i%len(palette)].RGBA()
	return drawing.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func renderPNG(path string, render func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func (r *Renderer) titleStyle() chart.Style {
	return chart.Style{FontSize: 14, Font: r.font}
}

func yRange(values []float64) *chart.ContinuousRange {
	hi := 0.0
	for _, v := range values {
		hi = math.Max(hi, v)
	}
	if hi <= 0 {
		hi = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: hi * 1.15}
}

// TopicDistribution draws one bar per topic with its corpus share.
func (r *Renderer) TopicDistribution(path string, res *topic.Result) error {
	if res == nil || len(res.Proportions) == 0 {
		return fmt.Errorf("topic distribution: %w", ErrNoData)
	}

	names := res.Names()
	bars := make([]chart.Value, len(res.Proportions))
	for i, p := range res.Proportions {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", names[i], p*100),
			Value: p,
			Style: chart.Style{FillColor: chartColor(i), StrokeColor: chartColor(i)},
		}
	}

	size := r.cfg.TopicPlot
	bc := chart.BarChart{
		Title:      "主题分布",
		TitleStyle: r.titleStyle(),
		Font:       r.font,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth(size.Width, len(bars), 120),
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:           "占比",
			Range:          yRange(res.Proportions),
			ValueFormatter: percentFormatter,
		},
		Bars: bars,
	}

	if err := renderPNG(path, func(f *os.File) error { return bc.Render(chart.PNG, f) }); err != nil {
		return err
	}
	r.logger.Info("topic distribution saved", "path", path)
	return nil
}

// SentimentDonut draws the positive/negative split as a donut chart.
func (r *Renderer) SentimentDonut(path string, records []types.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("sentiment distribution: %w", ErrNoData)
	}
	neg := sentiment.NegativeRatio(records)

	var values []chart.Value
	if neg < 1 {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("positive %.1f%%", (1-neg)*100),
			Value: 1 - neg,
			Style: chart.Style{FillColor: positiveColor},
		})
	}
	if neg > 0 {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("negative %.1f%%", neg*100),
			Value: neg,
			Style: chart.Style{FillColor: negativeColor},
		})
	}

	size := r.cfg.Sentiment
	dc := chart.DonutChart{
		Title:      "评论情感分布(已过滤虚假好评)",
		TitleStyle: r.titleStyle(),
		Font:       r.font,
		Width:      size.Width,
		Height:     size.Height,
		Values:     values,
	}

	if err := renderPNG(path, func(f *os.File) error { return dc.Render(chart.PNG, f) }); err != nil {
		return err
	}
	r.logger.Info("sentiment distribution saved", "path", path)
	return nil
}

// Histogram counts scores into bins equal-width bins over [0, 1].
func Histogram(records []types.Record, bins int) []int {
	if bins < 1 {
		bins = 1
	}
	counts := make([]int, bins)
	for _, rec := range records {
		i := int(rec.Score * float64(bins))
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return counts
}

// SentimentHistogram draws the adjusted score distribution.
func (r *Renderer) SentimentHistogram(path string, records []types.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("sentiment scores: %w", ErrNoData)
	}
	size := r.cfg.Sentiment
	counts := Histogram(records, size.Bins)

	labelEvery := max(1, len(counts)/6)
	bars := make([]chart.Value, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		label := ""
		if i%labelEvery == 0 {
			label = fmt.Sprintf("%.2f", float64(i)/float64(len(counts)))
		}
		bars[i] = chart.Value{
			Label: label,
			Value: float64(c),
			Style: chart.Style{FillColor: histColor, StrokeColor: histColor},
		}
		values[i] = float64(c)
	}

	bc := chart.BarChart{
		Title:      "情感分数分布(已过滤虚假好评)",
		TitleStyle: r.titleStyle(),
		Font:       r.font,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth(size.Width, len(bars), 60),
		BarSpacing: 2,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:           "频率",
			Range:          yRange(values),
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}

	if err := renderPNG(path, func(f *os.File) error { return bc.Render(chart.PNG, f) }); err != nil {
		return err
	}
	r.logger.Info("sentiment histogram saved", "path", path, "bins", len(counts))
	return nil
}

func barWidth(width, bars, maxWidth int) int {
	if bars == 0 {
		return maxWidth
	}
	w := (width - 120) / bars
	if w > maxWidth {
		w = maxWidth
	}
	if w < 4 {
		w = 4
	}
	return w
}

func percentFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", f*100)
	}
	return ""
}

func countFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}
