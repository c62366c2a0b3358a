package topic

import (
	"fmt"
	"strings"
)

// Row is one line of the topic summary table.
type Row struct {
	Label string
	Terms string
	Share string
}

// Label returns the display name of topic k (zero-based).
func Label(k int) string {
	return fmt.Sprintf("主题 %d", k+1)
}

// Names returns the display names of all topics.
func (r *Result) Names() []string {
	names := make([]string, len(r.Topics))
	for k := range r.Topics {
		names[k] = Label(k)
	}
	return names
}

// Rows formats one summary row per topic: label, "term (0.123) | …" and the
// document share as a percentage.
func (r *Result) Rows() []Row {
	rows := make([]Row, len(r.Topics))
	for k, t := range r.Topics {
		parts := make([]string, len(t.Terms))
		for i, tw := range t.Terms {
			parts[i] = fmt.Sprintf("%s (%.3f)", tw.Term, tw.Weight)
		}
		rows[k] = Row{
			Label: Label(k),
			Terms: strings.Join(parts, " | "),
			Share: fmt.Sprintf("%.1f%%", r.Proportions[k]*100),
		}
	}
	return rows
}

// Records returns Rows as string slices for tabular writers.
func (r *Result) Records() [][]string {
	rows := r.Rows()
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = []string{row.Label, row.Terms, row.Share}
	}
	return out
}
