package visualize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/IshaanNene/ReviewMiner/internal/topic"
)

// TopicHTML writes an interactive page with the intertopic distance map and
// one term-weight bar chart per topic.
func (r *Renderer) TopicHTML(path string, res *topic.Result) error {
	if res == nil || len(res.Topics) == 0 {
		return fmt.Errorf("topic visualization: %w", ErrNoData)
	}

	page := components.NewPage()
	page.PageTitle = "LDA 主题可视化"
	page.AddCharts(intertopicChart(res))
	for i, t := range res.Topics {
		page.AddCharts(topicTermsChart(res.Names()[i], t))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	r.logger.Info("topic visualization saved", "path", path, "topics", len(res.Topics))
	return f.Close()
}

func intertopicChart(res *topic.Result) *charts.Scatter {
	names := res.Names()
	points := res.IntertopicMap()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "主题间距离图", Subtitle: "Jensen-Shannon 距离的多维尺度分析"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PC1", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PC2", Type: "value"}),
	)

	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{
			Name:       fmt.Sprintf("%s (%.1f%%)", names[i], p.Size*100),
			Value:      []any{p.X, p.Y},
			SymbolSize: 20 + int(p.Size*80),
		}
	}
	scatter.AddSeries("主题", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: "{b}"}),
	)
	return scatter
}

func topicTermsChart(name string, t topic.Topic) *charts.Bar {
	terms := make([]string, len(t.Terms))
	data := make([]opts.BarData, len(t.Terms))
	for i, tw := range t.Terms {
		terms[i] = tw.Term
		data[i] = opts.BarData{Value: tw.Weight}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: name + " 主题词"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(terms).AddSeries("权重", data)
	return bar
}
