package topic

import (
	"github.com/james-bowman/sparse"
)

// WordCount is one bag-of-words entry.
type WordCount struct {
	ID    int
	Count int
}

// Dictionary maps terms to ids in first-seen order.
type Dictionary struct {
	ids   map[string]int
	terms []string
}

// NewDictionary builds the vocabulary of docs.
func NewDictionary(docs [][]string) *Dictionary {
	d := &Dictionary{ids: make(map[string]int)}
	for _, doc := range docs {
		for _, term := range doc {
			if _, ok := d.ids[term]; !ok {
				d.ids[term] = len(d.terms)
				d.terms = append(d.terms, term)
			}
		}
	}
	return d
}

// Len returns the vocabulary size.
func (d *Dictionary) Len() int { return len(d.terms) }

// Term returns the term with the given id.
func (d *Dictionary) Term(id int) string { return d.terms[id] }

// ID returns the id of a term.
func (d *Dictionary) ID(term string) (int, bool) {
	id, ok := d.ids[term]
	return id, ok
}

// Terms returns the vocabulary in id order.
func (d *Dictionary) Terms() []string {
	out := make([]string, len(d.terms))
	copy(out, d.terms)
	return out
}

// Doc2Bow encodes a document as word counts ordered by first occurrence.
// Unknown terms are ignored.
func (d *Dictionary) Doc2Bow(doc []string) []WordCount {
	index := make(map[int]int)
	var bow []WordCount
	for _, term := range doc {
		id, ok := d.ids[term]
		if !ok {
			continue
		}
		if i, seen := index[id]; seen {
			bow[i].Count++
			continue
		}
		index[id] = len(bow)
		bow = append(bow, WordCount{ID: id, Count: 1})
	}
	return bow
}

// termDocMatrix lays the corpus out as a sparse terms × documents matrix.
func termDocMatrix(d *Dictionary, corpus [][]WordCount) *sparse.CSC {
	dok := sparse.NewDOK(d.Len(), len(corpus))
	for j, bow := range corpus {
		for _, wc := range bow {
			dok.Set(wc.ID, j, float64(wc.Count))
		}
	}
	return dok.ToCSC()
}
