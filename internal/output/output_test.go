package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IshaanNene/ReviewMiner/internal/config"
)

func testOutputConfig(t *testing.T) config.OutputConfig {
	t.Helper()
	cfg := config.DefaultConfig().Output
	cfg.BaseDir = t.TempDir()
	return cfg
}

func TestNewRunCreatesLayout(t *testing.T) {
	cfg := testOutputConfig(t)
	now := time.Date(2025, 2, 21, 10, 15, 0, 0, time.Local)

	run, err := NewRun(cfg, now)
	if err != nil {
		t.Fatal(err)
	}
	if run.Name != "20250221_101500" {
		t.Errorf("run name = %q", run.Name)
	}
	for _, sub := range []string{"data", "visualization", "logs", "snapshots"} {
		info, err := os.Stat(filepath.Join(run.Dir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("missing subdir %s", sub)
		}
	}
	if got := run.CommentsPath(); got != filepath.Join(cfg.BaseDir, "20250221_101500", "data", "comments.txt") {
		t.Errorf("comments path = %q", got)
	}
	if got := run.VisualizationPath("wordcloud.png"); filepath.Base(filepath.Dir(got)) != "visualization" {
		t.Errorf("visualization path = %q", got)
	}
}

func TestNewRunSameSecondIsUnique(t *testing.T) {
	cfg := testOutputConfig(t)
	now := time.Date(2025, 2, 21, 10, 15, 0, 0, time.Local)

	first, err := NewRun(cfg, now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewRun(cfg, now)
	if err != nil {
		t.Fatal(err)
	}
	if first.Dir == second.Dir {
		t.Fatal("two runs share a directory")
	}
	if second.Name != "20250221_101500_1" {
		t.Errorf("second run name = %q", second.Name)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	base := t.TempDir()
	names := []string{
		"20250101_000000", "20250102_000000", "20250103_000000",
		"20250104_000000", "20250105_000000", "20250106_000000", "20250107_000000",
	}
	for _, n := range names {
		if err := os.Mkdir(filepath.Join(base, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	// Not a run directory; never touched.
	if err := os.Mkdir(filepath.Join(base, "fonts"), 0o755); err != nil {
		t.Fatal(err)
	}

	removed, err := Prune(base, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 2 || removed[0] != "20250102_000000" || removed[1] != "20250101_000000" {
		t.Errorf("removed = %v", removed)
	}

	left, err := ListRuns(base, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 5 || left[0] != "20250103_000000" || left[4] != "20250107_000000" {
		t.Errorf("remaining = %v", left)
	}
	if _, err := os.Stat(filepath.Join(base, "fonts")); err != nil {
		t.Error("non-run directory was pruned")
	}
}

func TestPruneMissingBase(t *testing.T) {
	removed, err := Prune(filepath.Join(t.TempDir(), "absent"), 5)
	if err != nil || removed != nil {
		t.Errorf("Prune on missing base = %v, %v", removed, err)
	}
}

func TestListRunsPrefix(t *testing.T) {
	base := t.TempDir()
	for _, n := range []string{"20250221_101500", "20250221_121500", "20250301_080000"} {
		if err := os.Mkdir(filepath.Join(base, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := ListRuns(base, "20250221_")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("ListRuns with prefix = %v", runs)
	}
}

func TestOpenRun(t *testing.T) {
	cfg := testOutputConfig(t)
	if err := os.Mkdir(filepath.Join(cfg.BaseDir, "20250221_101500"), 0o755); err != nil {
		t.Fatal(err)
	}

	r, err := OpenRun(cfg, "20250221_101500")
	if err != nil {
		t.Fatalf("OpenRun: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(r.SentimentReportPath())); err != nil {
		t.Errorf("data dir not recreated: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(r.VisualizationPath("x.png"))); err != nil {
		t.Errorf("visualization dir not recreated: %v", err)
	}

	if _, err := OpenRun(cfg, "20250101_000000"); err == nil {
		t.Error("expected error for missing run")
	}
}
