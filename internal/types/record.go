package types

// Label is the binary sentiment class of a scored comment.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
)

// Record is one scored comment. Raw is the model output, Score the adjusted
// score in [0, 1] that Sentiment is derived from.
type Record struct {
	Text      string  `json:"text"             bson:"text"`
	Raw       float64 `json:"raw_score"        bson:"raw_score"`
	Score     float64 `json:"score"            bson:"score"`
	Sentiment Label   `json:"sentiment"        bson:"sentiment"`
	Source    string  `json:"source,omitempty" bson:"source,omitempty"`
}
