package visualize

import (
	"fmt"

	"github.com/IshaanNene/ReviewMiner/internal/analysis"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

const (
	positiveCloudAbove = 0.7
	negativeCloudBelow = 0.3
)

// cloudStopwords are frequent review words that carry no sentiment.
var cloudStopwords = []string{
	"的", "了", "和", "是", "就", "都", "而且", "还有", "但是", "就是",
	"这个", "那个", "这些", "那些", "有", "也", "很", "非常", "特别",
	"不错", "没有", "还", "比较", "感觉", "一个", "啊", "呢", "吧", "挺",
	"买", "收到", "下单", "发货", "物流", "快递", "包装", "评价", "追评",
	"天", "月", "日", "号", "年", "后", "真的", "确实", "一下", "一直",
	"可以", "已经", "这次", "一次", "次", "给", "用", "说", "看", "觉得",
}

// praiseWords are also removed from the negative cloud.
var praiseWords = []string{
	"喜欢", "好吃", "棒", "好", "满意", "赞", "推荐", "很好", "非常好",
	"特别好", "超好", "给力", "完美",
}

// SentimentTexts splits record texts into the positive and negative cloud
// inputs.
func SentimentTexts(records []types.Record) (positive, negative []string) {
	for _, rec := range records {
		switch {
		case rec.Score > positiveCloudAbove:
			positive = append(positive, rec.Text)
		case rec.Score < negativeCloudBelow:
			negative = append(negative, rec.Text)
		}
	}
	return positive, negative
}

// CloudFrequencies counts cloud terms for one side. The negative side drops
// praise words as well.
func CloudFrequencies(seg *analysis.Segmenter, texts []string, negative bool) analysis.Frequencies {
	extra := cloudStopwords
	if negative {
		extra = append(append([]string(nil), cloudStopwords...), praiseWords...)
	}
	return seg.WithStopwords(extra...).Frequencies(texts)
}

// SentimentClouds renders the positive and negative word clouds. A side
// without texts is skipped. The first rendering error is returned after both
// sides were attempted.
func (r *Renderer) SentimentClouds(positivePath, negativePath string, seg *analysis.Segmenter, records []types.Record) error {
	pos, neg := SentimentTexts(records)

	var firstErr error
	for _, side := range []struct {
		name     string
		path     string
		texts    []string
		negative bool
	}{
		{"positive", positivePath, pos, false},
		{"negative", negativePath, neg, true},
	} {
		if len(side.texts) == 0 {
			r.logger.Info("no comments for word cloud", "side", side.name)
			continue
		}
		freq := CloudFrequencies(seg, side.texts, side.negative)
		if err := r.WordCloud(side.path, freq); err != nil {
			r.logger.Error("sentiment word cloud failed", "side", side.name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s word cloud: %w", side.name, err)
			}
		}
	}
	return firstErr
}
