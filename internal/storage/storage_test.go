package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestCommentsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "comments.txt")
	in := []types.Comment{
		{Text: "第一条\n分两行"},
		{Text: "第二条评论"},
	}
	if err := WriteComments(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "第一条 分两行\n第二条评论\n" {
		t.Errorf("unexpected file content %q", data)
	}

	out, err := ReadComments(path, "20250221_101010")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 2 || out[1].Text != "第二条评论" || out[0].Source != "20250221_101010" {
		t.Errorf("unexpected comments: %+v", out)
	}
}

func TestReadCommentsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments.txt")
	if err := os.WriteFile(path, []byte("\ufeff一\n\n   \n二  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := ReadComments(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Text != "一" || out[1].Text != "二" {
		t.Errorf("unexpected comments: %+v", out)
	}
}

func TestReadCommentsMissingFile(t *testing.T) {
	_, err := ReadComments(filepath.Join(t.TempDir(), "nope.txt"), "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestWriteCSVHasBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "word_frequencies.csv")
	err := WriteCSV(path, []string{"词语", "频次"}, [][]string{{"质量", "12"}, {"物流, 快", "3"}})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "\ufeff词语,频次\n") {
		t.Errorf("missing BOM or header: %q", data)
	}
	if !strings.Contains(string(data), `"物流, 快",3`) {
		t.Errorf("field with comma not quoted: %q", data)
	}

	header, rows, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if header[0] != "词语" || len(rows) != 2 || rows[0][1] != "12" {
		t.Errorf("unexpected read back: %v %v", header, rows)
	}
}

func TestWriteJSONKeepsUnicode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteJSON(path, map[string]string{"text": "味道<不错>"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"text": "味道<不错>"`) {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	w := NewSnapshotWriter(dir, testLogger)

	html := "<html><body>" + strings.Repeat("<div class=\"empty\">暂无评价</div>", 200) + "</body></html>"
	path, err := w.WriteSnapshot("page001_try1", html)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "page001_try1.html.br" {
		t.Errorf("unexpected snapshot path %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() >= int64(len(html)) {
		t.Errorf("snapshot not compressed: %d >= %d", info.Size(), len(html))
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != html {
		t.Error("snapshot content changed")
	}
}

func TestJSONLExporterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	e := NewJSONLExporter(path, testLogger)
	ctx := context.Background()

	for _, run := range []string{"20250101_000000", "20250102_000000"} {
		doc := &RunDocument{
			Run:       run,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Comments:  []types.Comment{{Text: "好"}},
			Sentiment: []types.Record{{Text: "好", Score: 0.6, Sentiment: types.Positive}},
		}
		if err := e.Export(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.Close(ctx); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var runs []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var doc RunDocument
		if err := json.Unmarshal(sc.Bytes(), &doc); err != nil {
			t.Fatalf("bad line: %v", err)
		}
		runs = append(runs, doc.Run)
	}
	if len(runs) != 2 || runs[1] != "20250102_000000" {
		t.Errorf("unexpected runs: %v", runs)
	}
}

type recordingExporter struct {
	name   string
	err    error
	got    []string
	closed bool
}

func (r *recordingExporter) Name() string { return r.name }
func (r *recordingExporter) Export(_ context.Context, doc *RunDocument) error {
	r.got = append(r.got, doc.Run)
	return r.err
}
func (r *recordingExporter) Close(context.Context) error {
	r.closed = true
	return nil
}

func TestMultiExporterFansOut(t *testing.T) {
	bad := &recordingExporter{name: "bad", err: errors.New("down")}
	good := &recordingExporter{name: "good"}
	m := NewMultiExporter(testLogger, bad, good)

	err := m.Export(context.Background(), &RunDocument{Run: "r1"})
	if err == nil || err.Error() != "down" {
		t.Errorf("expected first backend error, got %v", err)
	}
	if len(good.got) != 1 {
		t.Error("later backends must still receive the run")
	}
	if err := m.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !bad.closed || !good.closed {
		t.Error("all backends should be closed")
	}
}

func TestMongoExporterLive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live MongoDB test in short mode")
	}
	uri := os.Getenv("REVIEWMINER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("REVIEWMINER_TEST_MONGO_URI not set")
	}

	cfg := config.DefaultConfig().Storage.Mongo
	cfg.URI = uri
	cfg.Collection = "runs_test"

	ctx := context.Background()
	e, err := NewMongoExporter(ctx, cfg, testLogger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer e.Close(ctx)

	if err := e.Export(ctx, &RunDocument{Run: "test", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("export: %v", err)
	}
}
