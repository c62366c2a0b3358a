package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// DefaultPath is the config file used when none is given.
const DefaultPath = "config.json"

// RequiredKeys must resolve to a non-empty value before a run may start.
// Every one of them has a default, so a key only goes missing when the file
// or an override blanks it ("", [], {} or null).
var RequiredKeys = []string{
	"crawler.max_pages",
	"crawler.wait_time.min",
	"crawler.wait_time.max",
	"crawler.login_timeout",
	"crawler.targets.reviews.selectors",
	"visualization.wordcloud",
	"output.base_dir",
	"output.keep_runs",
	"output.subdirs.data",
	"output.subdirs.visualization",
	"output.subdirs.logs",
	"output.file_names.comments",
	"output.file_names.word_freq",
	"output.file_names.topic_analysis",
	"output.file_names.sentiment_report",
}

// Store is the persisted key-value tree behind Config. Keys are dotted paths
// ("crawler.max_pages"). Keys unknown to Config are kept and written back.
type Store struct {
	v    *viper.Viper
	path string
}

// Open reads the JSON config at path, layering it over the defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// A missing file is created from the defaults.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	v := newViper(path)
	s := &Store{v: v, path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return s, nil
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return s, nil
}

// Load opens the store at path and decodes it into a Config.
func Load(path string) (*Config, *Store, error) {
	s, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := s.Config()
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Get returns the value at a dotted key path, or nil.
func (s *Store) Get(key string) any {
	return s.v.Get(key)
}

// IsSet reports whether the key resolves to a value.
func (s *Store) IsSet(key string) bool {
	return s.v.IsSet(key)
}

// Set overrides the value at a dotted key path. Call Save to persist it.
func (s *Store) Set(key string, value any) {
	s.v.Set(key, value)
}

// SetString sets a value given on the command line. JSON literals (numbers,
// booleans, arrays, objects) are decoded; anything else is kept as a string.
func (s *Store) SetString(key, raw string) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		s.v.Set(key, decoded)
		return
	}
	s.v.Set(key, raw)
}

// Keys returns every leaf key of the tree, sorted.
func (s *Store) Keys() []string {
	keys := s.v.AllKeys()
	sort.Strings(keys)
	return keys
}

// Reset restores key to its default value. An empty key discards every
// setting, leaving only the defaults. Call Save to persist the change.
func (s *Store) Reset(key string) error {
	if key == "" {
		s.v = newViper(s.path)
		return nil
	}
	defaults := viper.New()
	setDefaults(defaults, DefaultConfig())
	if !defaults.IsSet(key) {
		return fmt.Errorf("%q has no default value", key)
	}
	s.v.Set(key, defaults.Get(key))
	return nil
}

// Missing returns the keys from the list that do not resolve to a value or
// resolve to a blank one.
func (s *Store) Missing(keys []string) []string {
	var missing []string
	for _, k := range keys {
		if !s.v.IsSet(k) || blank(s.v.Get(k)) {
			missing = append(missing, k)
		}
	}
	return missing
}

func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

// Save writes the merged tree (defaults, file contents, overrides) to disk.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Config decodes the current tree into a Config. Durations accept Go
// duration strings ("30s") or plain numbers of seconds.
func (s *Store) Config() (*Config, error) {
	cfg := DefaultConfig()
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := s.v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsToDurationHook reads a numeric duration as seconds. Without it a
// bare 30 in the file would decode as 30ns.
func secondsToDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(reflect.ValueOf(data).Uint()) * time.Second, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
	}
	return data, nil
}

// newViper creates the layered tree for path: env vars over the file over
// the defaults. The file is not read.
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(path)

	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("REVIEWMINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers default values in viper. Durations are registered as
// strings so the written file stays human-editable ("30s").
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("crawler.max_pages", cfg.Crawler.MaxPages)
	v.SetDefault("crawler.retry_times", cfg.Crawler.RetryTimes)
	v.SetDefault("crawler.login_url", cfg.Crawler.LoginURL)
	v.SetDefault("crawler.login_timeout", cfg.Crawler.LoginTimeout.String())
	v.SetDefault("crawler.wait_time.min", cfg.Crawler.WaitTime.Min.String())
	v.SetDefault("crawler.wait_time.max", cfg.Crawler.WaitTime.Max.String())
	v.SetDefault("crawler.settle_delay", cfg.Crawler.SettleDelay.String())
	v.SetDefault("crawler.element_timeout", cfg.Crawler.ElementTimeout.String())
	v.SetDefault("crawler.user_agent", cfg.Crawler.UserAgent)
	v.SetDefault("crawler.headless", cfg.Crawler.Headless)
	v.SetDefault("crawler.user_data_dir", cfg.Crawler.UserDataDir)
	v.SetDefault("crawler.browser_bin", cfg.Crawler.BrowserBin)
	v.SetDefault("crawler.reviews_path", cfg.Crawler.ReviewsPath)
	v.SetDefault("crawler.snapshots", cfg.Crawler.Snapshots)
	setTargetDefaults(v, "crawler.targets.show_all", cfg.Crawler.Targets.ShowAll)
	setTargetDefaults(v, "crawler.targets.next_page", cfg.Crawler.Targets.NextPage)
	setTargetDefaults(v, "crawler.targets.reviews", cfg.Crawler.Targets.Reviews)

	v.SetDefault("analysis.min_word_length", cfg.Analysis.MinWordLength)
	v.SetDefault("analysis.top_words_count", cfg.Analysis.TopWordsCount)
	v.SetDefault("analysis.topic_count", cfg.Analysis.TopicCount)
	v.SetDefault("analysis.words_per_topic", cfg.Analysis.WordsPerTopic)
	v.SetDefault("analysis.seed", cfg.Analysis.Seed)
	v.SetDefault("analysis.iterations", cfg.Analysis.Iterations)
	v.SetDefault("analysis.stopwords", cfg.Analysis.Stopwords)

	v.SetDefault("visualization.wordcloud.width", cfg.Visualization.WordCloud.Width)
	v.SetDefault("visualization.wordcloud.height", cfg.Visualization.WordCloud.Height)
	v.SetDefault("visualization.wordcloud.max_words", cfg.Visualization.WordCloud.MaxWords)
	v.SetDefault("visualization.wordcloud.max_font_size", cfg.Visualization.WordCloud.MaxFontSize)
	v.SetDefault("visualization.wordcloud.min_font_size", cfg.Visualization.WordCloud.MinFontSize)
	v.SetDefault("visualization.wordcloud.background_color", cfg.Visualization.WordCloud.BackgroundColor)
	v.SetDefault("visualization.topic_plot.width", cfg.Visualization.TopicPlot.Width)
	v.SetDefault("visualization.topic_plot.height", cfg.Visualization.TopicPlot.Height)
	v.SetDefault("visualization.sentiment.width", cfg.Visualization.Sentiment.Width)
	v.SetDefault("visualization.sentiment.height", cfg.Visualization.Sentiment.Height)
	v.SetDefault("visualization.sentiment.bins", cfg.Visualization.Sentiment.Bins)

	v.SetDefault("output.base_dir", cfg.Output.BaseDir)
	v.SetDefault("output.keep_runs", cfg.Output.KeepRuns)
	v.SetDefault("output.subdirs.data", cfg.Output.Subdirs.Data)
	v.SetDefault("output.subdirs.visualization", cfg.Output.Subdirs.Visualization)
	v.SetDefault("output.subdirs.logs", cfg.Output.Subdirs.Logs)
	v.SetDefault("output.subdirs.snapshots", cfg.Output.Subdirs.Snapshots)
	v.SetDefault("output.file_names.comments", cfg.Output.FileNames.Comments)
	v.SetDefault("output.file_names.word_freq", cfg.Output.FileNames.WordFreq)
	v.SetDefault("output.file_names.topic_analysis", cfg.Output.FileNames.TopicAnalysis)
	v.SetDefault("output.file_names.sentiment_report", cfg.Output.FileNames.SentimentReport)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("storage.jsonl.enabled", cfg.Storage.JSONL.Enabled)
	v.SetDefault("storage.jsonl.path", cfg.Storage.JSONL.Path)
	v.SetDefault("storage.mongo.enabled", cfg.Storage.Mongo.Enabled)
	v.SetDefault("storage.mongo.uri", cfg.Storage.Mongo.URI)
	v.SetDefault("storage.mongo.database", cfg.Storage.Mongo.Database)
	v.SetDefault("storage.mongo.collection", cfg.Storage.Mongo.Collection)
	v.SetDefault("storage.mongo.timeout", cfg.Storage.Mongo.Timeout.String())
}

func setTargetDefaults(v *viper.Viper, prefix string, t Target) {
	v.SetDefault(prefix+".selectors", t.Selectors)
	if len(t.Text) > 0 {
		v.SetDefault(prefix+".text", t.Text)
	}
}
