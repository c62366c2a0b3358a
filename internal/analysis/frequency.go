package analysis

import (
	"sort"
	"strconv"
)

// TermCount is one row of a frequency table.
type TermCount struct {
	Term  string `json:"term"  bson:"term"`
	Count int    `json:"count" bson:"count"`
}

// Frequencies maps a term to its number of occurrences.
type Frequencies map[string]int

// Total returns the sum of all counts.
func (f Frequencies) Total() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// MostCommon returns the n most frequent terms, by count descending and then
// term ascending. n <= 0 returns all terms.
func (f Frequencies) MostCommon(n int) []TermCount {
	rows := make([]TermCount, 0, len(f))
	for term, count := range f {
		rows = append(rows, TermCount{Term: term, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Term < rows[j].Term
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// Records formats the n most frequent terms as CSV records.
func (f Frequencies) Records(n int) [][]string {
	rows := f.MostCommon(n)
	out := make([][]string, len(rows))
	for i, tc := range rows {
		out[i] = []string{tc.Term, strconv.Itoa(tc.Count)}
	}
	return out
}

// Top returns the n most frequent terms as a new table. n <= 0 returns a
// copy of the whole table.
func (f Frequencies) Top(n int) Frequencies {
	size := len(f)
	if n > 0 && n < size {
		size = n
	}
	top := make(Frequencies, size)
	for _, tc := range f.MostCommon(n) {
		top[tc.Term] = tc.Count
	}
	return top
}
