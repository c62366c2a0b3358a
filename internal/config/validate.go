package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	c := cfg.Crawler
	if c.MaxPages < 1 {
		return fmt.Errorf("crawler.max_pages must be >= 1, got %d", c.MaxPages)
	}
	if c.RetryTimes < 1 {
		return fmt.Errorf("crawler.retry_times must be >= 1, got %d", c.RetryTimes)
	}
	if c.LoginTimeout < 0 {
		return fmt.Errorf("crawler.login_timeout must be >= 0")
	}
	if c.WaitTime.Min < 0 || c.WaitTime.Max <= 0 {
		return fmt.Errorf("crawler.wait_time must have min >= 0 and max > 0")
	}
	if c.WaitTime.Max < c.WaitTime.Min {
		return fmt.Errorf("crawler.wait_time.max (%s) must be >= min (%s)", c.WaitTime.Max, c.WaitTime.Min)
	}
	if c.SettleDelay <= 0 {
		return fmt.Errorf("crawler.settle_delay must be > 0")
	}
	if c.ElementTimeout <= 0 {
		return fmt.Errorf("crawler.element_timeout must be > 0")
	}
	if c.LoginURL != "" {
		if err := ValidateURL(c.LoginURL); err != nil {
			return fmt.Errorf("crawler.login_url: %w", err)
		}
	}
	for name, t := range map[string]Target{
		"show_all":  c.Targets.ShowAll,
		"next_page": c.Targets.NextPage,
		"reviews":   c.Targets.Reviews,
	} {
		if len(t.Selectors) == 0 {
			return fmt.Errorf("crawler.targets.%s.selectors must not be empty", name)
		}
		for _, sel := range t.Selectors {
			if strings.TrimSpace(sel) == "" {
				return fmt.Errorf("crawler.targets.%s has an empty selector", name)
			}
		}
	}

	a := cfg.Analysis
	if a.MinWordLength < 1 {
		return fmt.Errorf("analysis.min_word_length must be >= 1, got %d", a.MinWordLength)
	}
	if a.TopicCount < 1 {
		return fmt.Errorf("analysis.topic_count must be >= 1, got %d", a.TopicCount)
	}
	if a.WordsPerTopic < 1 {
		return fmt.Errorf("analysis.words_per_topic must be >= 1, got %d", a.WordsPerTopic)
	}
	if a.Iterations < 1 {
		return fmt.Errorf("analysis.iterations must be >= 1, got %d", a.Iterations)
	}

	wc := cfg.Visualization.WordCloud
	if wc.Width <= 0 || wc.Height <= 0 {
		return fmt.Errorf("visualization.wordcloud size must be positive, got %dx%d", wc.Width, wc.Height)
	}
	if wc.MinFontSize <= 0 || wc.MaxFontSize < wc.MinFontSize {
		return fmt.Errorf("visualization.wordcloud font sizes invalid (min %d, max %d)", wc.MinFontSize, wc.MaxFontSize)
	}
	if cfg.Visualization.Sentiment.Bins < 1 {
		return fmt.Errorf("visualization.sentiment.bins must be >= 1")
	}

	if cfg.Output.BaseDir == "" {
		return fmt.Errorf("output.base_dir must not be empty")
	}
	if cfg.Output.KeepRuns < 1 {
		return fmt.Errorf("output.keep_runs must be >= 1, got %d", cfg.Output.KeepRuns)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if j := cfg.Storage.JSONL; j.Enabled && strings.TrimSpace(j.Path) == "" {
		return fmt.Errorf("storage.jsonl.path is required when enabled")
	}
	if m := cfg.Storage.Mongo; m.Enabled {
		if !strings.HasPrefix(m.URI, "mongodb://") && !strings.HasPrefix(m.URI, "mongodb+srv://") {
			return fmt.Errorf("storage.mongo.uri must be a mongodb:// URI, got %q", m.URI)
		}
		if m.Database == "" || m.Collection == "" {
			return fmt.Errorf("storage.mongo.database and collection are required when enabled")
		}
	}

	return nil
}

// ValidateStore checks that every required key resolves before decoding, so
// a blanked duration is reported as missing rather than as a parse error. The
// decoded config is returned once it validates.
func ValidateStore(s *Store) (*Config, error) {
	if missing := s.Missing(RequiredKeys); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrMissingConfig, strings.Join(missing, ", "))
	}
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateURL checks if a URL string is valid for crawling.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
