package browser

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/IshaanNene/ReviewMiner/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestProfileScriptHidesWebdriver(t *testing.T) {
	p := &Profile{Platform: "Win32", Language: "zh-CN", ViewportWidth: 1366, ViewportHeight: 768, HardwareConcurrency: 8, DeviceMemory: 8}

	js := p.Script()
	if !strings.Contains(js, "'webdriver', { get: () => undefined }") {
		t.Error("script does not hide navigator.webdriver")
	}
	if !strings.Contains(js, "['zh-CN', 'zh', 'en']") {
		t.Error("script does not set languages")
	}
	if p.WindowSize() != "1366,768" {
		t.Errorf("window size = %q", p.WindowSize())
	}
	if !strings.HasPrefix(p.AcceptLanguage(), "zh-CN") {
		t.Errorf("accept-language = %q", p.AcceptLanguage())
	}
}

func TestDefaultProfileRanges(t *testing.T) {
	for i := 0; i < 20; i++ {
		p := DefaultProfile()
		if p.HardwareConcurrency < 4 || p.HardwareConcurrency > 12 {
			t.Fatalf("hardware concurrency %d out of range", p.HardwareConcurrency)
		}
		if p.ViewportWidth == 0 || p.ViewportHeight == 0 {
			t.Fatal("empty viewport")
		}
	}
}

func TestSessionLive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live browser test in short mode")
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no local Chromium found")
	}

	cfg := config.DefaultConfig().Crawler
	cfg.Headless = true

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s, err := Open(ctx, cfg, testLogger, WithBin(bin))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer s.Close()

	page := s.Page().Context(ctx)
	if err := page.Navigate("about:blank"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	res, err := page.Eval(`() => navigator.webdriver === undefined`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !res.Value.Bool() {
		t.Error("navigator.webdriver is still exposed")
	}

	if err := s.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
