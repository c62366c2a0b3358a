package storage

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// utf8BOM lets spreadsheet applications detect the encoding of CSV files.
const utf8BOM = "\ufeff"

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}

// WriteComments writes one comment per line. Line breaks inside a comment are
// folded into spaces so the file can be read back line by line.
func WriteComments(path string, comments []types.Comment) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, c := range comments {
		line := strings.Join(strings.Fields(c.Text), " ")
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write comments: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write comments: %w", err)
	}
	return f.Close()
}

// ReadComments reads a comment file, skipping blank lines. Every comment is
// tagged with source.
func ReadComments(path, source string) ([]types.Comment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var comments []types.Comment
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		text := strings.TrimSpace(strings.TrimPrefix(sc.Text(), utf8BOM))
		if text == "" {
			continue
		}
		comments = append(comments, types.Comment{Text: text, Source: source})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read comments %s: %w", path, err)
	}
	return comments, nil
}

// WriteCSV writes a header row and records as UTF-8 CSV with a byte order
// mark.
func WriteCSV(path string, header []string, records [][]string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write CSV rows: %w", err)
	}
	return f.Close()
}

// ReadCSV reads a CSV written by WriteCSV and returns the header and records.
func ReadCSV(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse CSV %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

// WriteJSON writes v as indented JSON. Non-ASCII text is written as is.
func WriteJSON(path string, v any) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return f.Close()
}

// JSONLExporter appends one JSON document per run to a file, giving a run
// history that survives directory pruning.
type JSONLExporter struct {
	path   string
	count  int
	logger *slog.Logger
}

// NewJSONLExporter creates an exporter appending to path.
func NewJSONLExporter(path string, logger *slog.Logger) *JSONLExporter {
	return &JSONLExporter{
		path:   path,
		logger: logger.With("component", "jsonl_export"),
	}
}

func (e *JSONLExporter) Name() string { return "jsonl" }

func (e *JSONLExporter) Export(_ context.Context, doc *RunDocument) error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return &types.StorageError{Backend: e.Name(), Err: err}
	}
	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &types.StorageError{Backend: e.Name(), Err: err}
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(doc); err != nil {
		return &types.StorageError{Backend: e.Name(), Err: fmt.Errorf("encode JSONL: %w", err)}
	}
	e.count++
	e.logger.Debug("run appended", "path", e.path, "run", doc.Run)
	return f.Close()
}

func (e *JSONLExporter) Close(context.Context) error {
	e.logger.Debug("JSONL exporter closing", "path", e.path, "runs", e.count)
	return nil
}
