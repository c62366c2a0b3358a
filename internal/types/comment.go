package types

import (
	"strings"
)

// placeholderPrefixes are texts the shop renders when a buyer left no review.
var placeholderPrefixes = []string{
	"此用户没有填写评价",
	"该用户未填写评价",
	"该用户觉得商品非常好",
	"系统默认好评",
}

// Comment is a single review text together with the tag of where it came from
// (the run directory name for loaded comments, the crawl source otherwise).
type Comment struct {
	Text   string `json:"text"             bson:"text"`
	Source string `json:"source,omitempty" bson:"source,omitempty"`
	Page   int    `json:"page,omitempty"   bson:"page,omitempty"`
}

// NewComment trims text and returns false when nothing usable is left.
func NewComment(text, source string) (Comment, bool) {
	text = strings.TrimSpace(text)
	if text == "" || IsPlaceholder(text) {
		return Comment{}, false
	}
	return Comment{Text: text, Source: source}, true
}

// IsPlaceholder reports whether text is a "no review written" placeholder.
func IsPlaceholder(text string) bool {
	text = strings.TrimSpace(text)
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// Batch is the ordered set of comments collected in one crawl session.
// Comments are only ever appended, in discovery order.
type Batch struct {
	comments []Comment
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Append adds comments at the end of the batch.
func (b *Batch) Append(comments ...Comment) {
	b.comments = append(b.comments, comments...)
}

// Len returns the number of comments.
func (b *Batch) Len() int {
	return len(b.comments)
}

// Comments returns a copy of the batch contents.
func (b *Batch) Comments() []Comment {
	out := make([]Comment, len(b.comments))
	copy(out, b.comments)
	return out
}

// Texts returns the comment texts in order.
func (b *Batch) Texts() []string {
	texts := make([]string, len(b.comments))
	for i, c := range b.comments {
		texts[i] = c.Text
	}
	return texts
}
