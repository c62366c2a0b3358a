package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/IshaanNene/ReviewMiner/internal/analysis"
)

// sampleWidth truncates sample comments in the console table.
const sampleWidth = 60

// Print renders the report highlights as console tables.
func Print(w io.Writer, r *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("情感分析概览")
	t.AppendRows([]table.Row{
		{"有效评论", r.Overall.Records},
		{"平均情感得分", fmt.Sprintf("%.3f", r.Overall.AverageScore)},
		{"负面评论占比", r.Overall.NegativeRatio},
		{"问题严重程度", r.Negative.Severity},
		{"负面关键词", joinTerms(r.Negative.KeyTerms)},
		{"正面关键词", joinTerms(r.Positive.KeyTerms)},
	})
	t.Render()

	d := table.NewWriter()
	d.SetOutputMirror(w)
	d.SetStyle(table.StyleLight)
	d.AppendHeader(table.Row{"评分区间", "范围", "数量", "占比"})
	for _, b := range r.Overall.Distribution {
		d.AppendRow(table.Row{b.Band, b.Range, b.Count, b.Share})
	}
	d.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}, {Number: 4, Align: text.AlignRight}})
	d.Render()

	if len(r.Negative.Samples) > 0 {
		s := table.NewWriter()
		s.SetOutputMirror(w)
		s.SetStyle(table.StyleLight)
		s.AppendHeader(table.Row{"#", "典型负面评论"})
		for i, sample := range r.Negative.Samples {
			s.AppendRow(table.Row{i + 1, text.Trim(sample, sampleWidth)})
		}
		s.Render()
	}
}

func joinTerms(terms []analysis.TermCount) string {
	if len(terms) == 0 {
		return "-"
	}
	parts := make([]string, len(terms))
	for i, tc := range terms {
		parts[i] = fmt.Sprintf("%s(%d)", tc.Term, tc.Count)
	}
	return strings.Join(parts, " ")
}
