// Package browser owns the Chromium session used to crawl reviews.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// Session is one browser process with a single stealth page.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	profile  *Profile
	persist  bool
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	profile     *Profile
	userDataDir string
	bin         string
}

// Option configures Open.
type Option func(*options)

// WithProfile sets the fingerprint profile.
func WithProfile(p *Profile) Option {
	return func(o *options) { o.profile = p }
}

// WithUserDataDir keeps the browser profile (and so the login cookies) in dir
// across runs.
func WithUserDataDir(dir string) Option {
	return func(o *options) { o.userDataDir = dir }
}

// WithBin uses the given Chromium binary instead of the auto-detected one.
func WithBin(path string) Option {
	return func(o *options) { o.bin = path }
}

// Open launches Chromium with automation-detection suppression and opens a
// stealth page. Every failure wraps types.ErrSessionUnavailable.
func Open(ctx context.Context, cfg config.CrawlerConfig, logger *slog.Logger, opts ...Option) (*Session, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.profile == nil {
		o.profile = DefaultProfile()
	}

	s := &Session{
		profile: o.profile,
		persist: o.userDataDir != "",
		logger:  logger.With("component", "browser_session"),
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation").
		Set("disable-infobars").
		Set("disable-dev-shm-usage").
		Set("window-size", o.profile.WindowSize()).
		Set("lang", o.profile.Language)
	if cfg.UserAgent != "" {
		l = l.Set("user-agent", cfg.UserAgent)
	}
	if o.userDataDir != "" {
		l = l.UserDataDir(o.userDataDir)
	}
	if o.bin != "" {
		l = l.Bin(o.bin)
	}
	s.launcher = l

	controlURL, err := l.Launch()
	if err != nil {
		s.release()
		return nil, fmt.Errorf("%w: launch browser: %v", types.ErrSessionUnavailable, err)
	}

	s.browser = rod.New().ControlURL(controlURL)
	if err := s.browser.Connect(); err != nil {
		s.release()
		return nil, fmt.Errorf("%w: connect browser: %v", types.ErrSessionUnavailable, err)
	}

	page, err := stealth.Page(s.browser)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: stealth page: %v", types.ErrSessionUnavailable, err)
	}
	s.page = page

	if cfg.UserAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: o.profile.AcceptLanguage(),
			Platform:       o.profile.Platform,
		})
		if err != nil {
			s.logger.Warn("failed to set user agent", "error", err)
		}
	}

	if _, err := page.EvalOnNewDocument(o.profile.Script()); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: install startup script: %v", types.ErrSessionUnavailable, err)
	}

	s.logger.Info("browser session ready",
		"headless", cfg.Headless,
		"window", o.profile.WindowSize(),
		"persistent_profile", s.persist,
	)
	return s, nil
}

// Page returns the session's page.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close shuts the browser down and releases the launcher. It is safe to call
// more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.page != nil {
			if err := s.page.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close page: %w", err))
			}
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		s.release()
		s.closeErr = errors.Join(errs...)
		s.logger.Info("browser session closed")
	})
	return s.closeErr
}

// release stops the browser process. A persistent profile directory is kept.
func (s *Session) release() {
	if s.launcher == nil {
		return
	}
	if s.persist {
		s.launcher.Kill()
		return
	}
	s.launcher.Cleanup()
}
