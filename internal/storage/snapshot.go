package storage

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"
)

// SnapshotExt is appended to every snapshot file name.
const SnapshotExt = ".html.br"

// SnapshotWriter stores brotli-compressed page HTML for pages that yielded no
// comments, so selector drift can be diagnosed after the run.
type SnapshotWriter struct {
	dir    string
	logger *slog.Logger
}

// NewSnapshotWriter creates a writer for dir. The directory is created on the
// first write.
func NewSnapshotWriter(dir string, logger *slog.Logger) *SnapshotWriter {
	return &SnapshotWriter{
		dir:    dir,
		logger: logger.With("component", "snapshots"),
	}
}

// WriteSnapshot compresses html into <dir>/<name>.html.br and returns the path.
func (s *SnapshotWriter) WriteSnapshot(name, html string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := io.WriteString(w, html); err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}

	path := filepath.Join(s.dir, name+SnapshotExt)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	s.logger.Debug("snapshot written", "path", path, "raw", len(html), "compressed", buf.Len())
	return path, nil
}

// ReadSnapshot decompresses a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(brotli.NewReader(f))
	if err != nil {
		return "", fmt.Errorf("decompress snapshot %s: %w", path, err)
	}
	return string(data), nil
}
