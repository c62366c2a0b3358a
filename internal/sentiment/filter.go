// Package sentiment filters low-information reviews, scores the rest and
// rebalances the scores into positive and negative records.
package sentiment

import (
	"log/slog"
	"regexp"
	"unicode/utf8"

	"github.com/IshaanNene/ReviewMiner/internal/pipeline"
)

const (
	// MinRunes is the shortest comment that is scored at all.
	MinRunes = 8

	// templatedMaxRunes is the length below which a templated comment is
	// always excluded.
	templatedMaxRunes = 20
)

// templatedPatterns match boilerplate praise.
var templatedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`很好|非常好|特别好|挺好|真的很好|棒棒|超级好|特别棒`),
	regexp.MustCompile(`^好评$|^好吃$|^不错$|^推荐$|^喜欢$|^赞$`),
	regexp.MustCompile(`物美价廉|物流很快|态度很好|服务态度|性价比高`),
	regexp.MustCompile(`(商品|质量|服务|包装|物流).*(很|非常|特别)好`),
	regexp.MustCompile(`宝贝收到了.*?(?:好评|五星|非常好)`),
	regexp.MustCompile(`下次还来|还会再来|继续支持|回购|再买`),
	regexp.MustCompile(`(没有|没什么)问题`),
	regexp.MustCompile(`(很|非常|特别)(满意|开心|喜欢)`),
	regexp.MustCompile(`(质量|服务|态度|物流).*(给力|完美|超好)`),
	regexp.MustCompile(`(赞|好评|五星|非常好).{0,10}$`),
	regexp.MustCompile(`值得购买|值得推荐|强烈推荐`),
	regexp.MustCompile(`(日期|保质期).*(新鲜|很新|够长)`),
	regexp.MustCompile(`(包装|快递).*(完好|完整|仔细)`),
	regexp.MustCompile(`(客服|售后).*(热情|耐心|周到)`),
}

// detailPattern is a character class, not an alternation: any one of the
// listed runes followed by at least eight more counts as detail.
var detailPattern = regexp.MustCompile(`[具体细节|味道|口感|包装|价格|服务].{8,}`)

// IsTemplated reports whether text is boilerplate praise without enough
// detail to be informative. Comments shorter than MinRunes are always
// excluded as well.
func IsTemplated(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < MinRunes {
		return true
	}
	for _, re := range templatedPatterns {
		if !re.MatchString(text) {
			continue
		}
		if n < templatedMaxRunes || !detailPattern.MatchString(text) {
			return true
		}
	}
	return false
}

// NewFilter builds the comment filter applied before scoring: trim, markup
// cleanup, placeholder drop, minimum length and templated praise.
func NewFilter(logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(logger).
		Use(&pipeline.TrimMiddleware{}).
		Use(pipeline.NewHTMLSanitizeMiddleware()).
		Use(&pipeline.PlaceholderMiddleware{}).
		Use(&pipeline.MinLengthMiddleware{Runes: MinRunes}).
		Use(&pipeline.RejectMiddleware{Label: "templated", Match: IsTemplated})
}
