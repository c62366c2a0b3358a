package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for ReviewMiner.
type Config struct {
	Crawler       CrawlerConfig       `mapstructure:"crawler"       json:"crawler"`
	Analysis      AnalysisConfig      `mapstructure:"analysis"      json:"analysis"`
	Visualization VisualizationConfig `mapstructure:"visualization" json:"visualization"`
	Output        OutputConfig        `mapstructure:"output"        json:"output"`
	Logging       LoggingConfig       `mapstructure:"logging"       json:"logging"`
	Storage       StorageConfig       `mapstructure:"storage"       json:"storage"`
}

// CrawlerConfig controls the browser session and the review crawl loop.
type CrawlerConfig struct {
	MaxPages       int            `mapstructure:"max_pages"       json:"max_pages"`
	RetryTimes     int            `mapstructure:"retry_times"     json:"retry_times"`
	LoginURL       string         `mapstructure:"login_url"       json:"login_url"`
	LoginTimeout   time.Duration  `mapstructure:"login_timeout"   json:"login_timeout"`
	WaitTime       WaitTimeConfig `mapstructure:"wait_time"       json:"wait_time"`
	SettleDelay    time.Duration  `mapstructure:"settle_delay"    json:"settle_delay"`
	ElementTimeout time.Duration  `mapstructure:"element_timeout" json:"element_timeout"`
	UserAgent      string         `mapstructure:"user_agent"      json:"user_agent"`
	Headless       bool           `mapstructure:"headless"        json:"headless"`
	UserDataDir    string         `mapstructure:"user_data_dir"   json:"user_data_dir"`
	BrowserBin     string         `mapstructure:"browser_bin"     json:"browser_bin"`
	ReviewsPath    string         `mapstructure:"reviews_path"    json:"reviews_path"`
	Snapshots      bool           `mapstructure:"snapshots"       json:"snapshots"`
	Targets        TargetsConfig  `mapstructure:"targets"         json:"targets"`
}

// WaitTimeConfig bounds the randomized human-pacing delay.
type WaitTimeConfig struct {
	Min time.Duration `mapstructure:"min" json:"min"`
	Max time.Duration `mapstructure:"max" json:"max"`
}

// TargetsConfig holds the selector fallback chains for each logical UI target.
type TargetsConfig struct {
	ShowAll  Target `mapstructure:"show_all"  json:"show_all"`
	NextPage Target `mapstructure:"next_page" json:"next_page"`
	Reviews  Target `mapstructure:"reviews"   json:"reviews"`
}

// Target is an ordered list of locators plus the substrings an element's
// visible text must contain (any of them) to be accepted. Selectors are CSS
// unless prefixed with "xpath:".
type Target struct {
	Selectors []string `mapstructure:"selectors" json:"selectors"`
	Text      []string `mapstructure:"text"      json:"text,omitempty"`
}

// AnalysisConfig controls segmentation and topic modeling.
type AnalysisConfig struct {
	MinWordLength int      `mapstructure:"min_word_length" json:"min_word_length"`
	TopWordsCount int      `mapstructure:"top_words_count" json:"top_words_count"`
	TopicCount    int      `mapstructure:"topic_count"     json:"topic_count"`
	WordsPerTopic int      `mapstructure:"words_per_topic" json:"words_per_topic"`
	Seed          int64    `mapstructure:"seed"            json:"seed"`
	Iterations    int      `mapstructure:"iterations"      json:"iterations"`
	Stopwords     []string `mapstructure:"stopwords"       json:"stopwords"`
}

// VisualizationConfig controls chart sizing.
type VisualizationConfig struct {
	WordCloud WordCloudConfig `mapstructure:"wordcloud"  json:"wordcloud"`
	TopicPlot PlotConfig      `mapstructure:"topic_plot" json:"topic_plot"`
	Sentiment SentimentPlot   `mapstructure:"sentiment"  json:"sentiment"`
}

// WordCloudConfig controls word cloud rendering.
type WordCloudConfig struct {
	Width           int    `mapstructure:"width"            json:"width"`
	Height          int    `mapstructure:"height"           json:"height"`
	MaxWords        int    `mapstructure:"max_words"        json:"max_words"`
	MaxFontSize     int    `mapstructure:"max_font_size"    json:"max_font_size"`
	MinFontSize     int    `mapstructure:"min_font_size"    json:"min_font_size"`
	BackgroundColor string `mapstructure:"background_color" json:"background_color"`
}

// PlotConfig is the pixel size of a raster chart.
type PlotConfig struct {
	Width  int `mapstructure:"width"  json:"width"`
	Height int `mapstructure:"height" json:"height"`
}

// SentimentPlot controls the sentiment charts.
type SentimentPlot struct {
	Width  int `mapstructure:"width"  json:"width"`
	Height int `mapstructure:"height" json:"height"`
	Bins   int `mapstructure:"bins"   json:"bins"`
}

// OutputConfig controls the run directory layout and retention.
type OutputConfig struct {
	BaseDir   string          `mapstructure:"base_dir"   json:"base_dir"`
	KeepRuns  int             `mapstructure:"keep_runs"  json:"keep_runs"`
	Subdirs   SubdirConfig    `mapstructure:"subdirs"    json:"subdirs"`
	FileNames FileNamesConfig `mapstructure:"file_names" json:"file_names"`
}

// SubdirConfig names the fixed subdirectories of every run.
type SubdirConfig struct {
	Data          string `mapstructure:"data"          json:"data"`
	Visualization string `mapstructure:"visualization" json:"visualization"`
	Logs          string `mapstructure:"logs"          json:"logs"`
	Snapshots     string `mapstructure:"snapshots"     json:"snapshots"`
}

// FileNamesConfig names the persisted data artifacts.
type FileNamesConfig struct {
	Comments        string `mapstructure:"comments"         json:"comments"`
	WordFreq        string `mapstructure:"word_freq"        json:"word_freq"`
	TopicAnalysis   string `mapstructure:"topic_analysis"   json:"topic_analysis"`
	SentimentReport string `mapstructure:"sentiment_report" json:"sentiment_report"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// StorageConfig controls optional exports beyond the run directory.
type StorageConfig struct {
	JSONL JSONLConfig `mapstructure:"jsonl" json:"jsonl"`
	Mongo MongoConfig `mapstructure:"mongo" json:"mongo"`
}

// JSONLConfig controls the run history file. A relative path is resolved
// against output.base_dir.
type JSONLConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Path    string `mapstructure:"path"    json:"path"`
}

// MongoConfig controls the MongoDB run export.
type MongoConfig struct {
	Enabled    bool          `mapstructure:"enabled"    json:"enabled"`
	URI        string        `mapstructure:"uri"        json:"uri"`
	Database   string        `mapstructure:"database"   json:"database"`
	Collection string        `mapstructure:"collection" json:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"    json:"timeout"`
}

// DefaultStopwords is the stopword set used for segmentation.
var DefaultStopwords = []string{
	"的", "了", "和", "是", "就", "都", "而", "及", "与", "着",
	"或", "一个", "没有", "这个", "那个", "这样", "那样", "还是",
	"什么", "这些", "那些", "一些", "一样", "很多", "不是",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Crawler: CrawlerConfig{
			MaxPages:       10,
			RetryTimes:     3,
			LoginURL:       "https://login.taobao.com/",
			LoginTimeout:   30 * time.Second,
			WaitTime:       WaitTimeConfig{Min: 2 * time.Second, Max: 5 * time.Second},
			SettleDelay:    3 * time.Second,
			ElementTimeout: 10 * time.Second,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Headless:       false,
			ReviewsPath:    "rate.htm",
			Snapshots:      true,
			Targets:        DefaultTargets(),
		},
		Analysis: AnalysisConfig{
			MinWordLength: 2,
			TopWordsCount: 100,
			TopicCount:    3,
			WordsPerTopic: 10,
			Seed:          42,
			Iterations:    200,
			Stopwords:     append([]string(nil), DefaultStopwords...),
		},
		Visualization: VisualizationConfig{
			WordCloud: WordCloudConfig{
				Width:           800,
				Height:          400,
				MaxWords:        100,
				MaxFontSize:     100,
				MinFontSize:     10,
				BackgroundColor: "white",
			},
			TopicPlot: PlotConfig{Width: 1000, Height: 600},
			Sentiment: SentimentPlot{Width: 1000, Height: 600, Bins: 30},
		},
		Output: OutputConfig{
			BaseDir:  "output",
			KeepRuns: 5,
			Subdirs: SubdirConfig{
				Data:          "data",
				Visualization: "visualization",
				Logs:          "logs",
				Snapshots:     "snapshots",
			},
			FileNames: FileNamesConfig{
				Comments:        "comments.txt",
				WordFreq:        "word_frequencies.csv",
				TopicAnalysis:   "topic_analysis.csv",
				SentimentReport: "sentiment_analysis_report.json",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			JSONL: JSONLConfig{
				Enabled: true,
				Path:    "runs.jsonl",
			},
			Mongo: MongoConfig{
				Enabled:    false,
				URI:        "mongodb://localhost:27017",
				Database:   "reviewminer",
				Collection: "runs",
				Timeout:    10 * time.Second,
			},
		},
	}
}

// DefaultTargets returns the selector chains for the current Taobao markup.
// They are ordered from most specific to most generic.
func DefaultTargets() TargetsConfig {
	return TargetsConfig{
		ShowAll: Target{
			Selectors: []string{
				"div.ShowButton--o4XEG7ih",
				"div.footer--h5lcc85O div[class*='ShowButton']",
				"a[href*='rate']",
				"div[data-index='1']",
				"div.tabTitleItem--z4AoobEz",
				"a.tb-tab-anchor[href*='rate']",
				"li.J_TabBarItem",
			},
			Text: []string{"全部评价", "查看全部", "评价"},
		},
		NextPage: Target{
			Selectors: []string{
				"div.ShowButton--o4XEG7ih",
				"div.footer--h5lcc85O div[class*='ShowButton']",
				"div[class*='pagination'] button:last-child",
				"button",
				"xpath://div[not(*) and contains(normalize-space(.), '下一页')]",
			},
			Text: []string{"下一页", "显示更多"},
		},
		Reviews: Target{
			Selectors: []string{
				"div.Comment--KkPcz74T div.content--FpIOzHeP",
				"div.contentWrapper--uAdAlCgC div.content--FpIOzHeP",
				"div.Comment--KkPcz74T div[class*='content']",
				"div[class*='comment'] div[class*='content']",
				"div.rate-content",
				"div.tb-rev-item div.J_KgRate_ReviewContent",
				"div.review-details",
			},
		},
	}
}
