package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/IshaanNene/ReviewMiner/internal/config"
)

// Run log file names inside the logs subdirectory.
const (
	InfoLogName  = "info.log"
	ErrorLogName = "error.log"
)

// ParseLevel maps a config level string to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Console creates the stderr handler. Text format uses tint, json format the
// stdlib JSON handler.
func Console(cfg config.LoggingConfig, verbose bool) slog.Handler {
	level := ParseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})
}

// RunLogs holds the per-run log files.
type RunLogs struct {
	info  *os.File
	errs  *os.File
	level slog.Level
}

// OpenRunLogs creates info.log and error.log under dir. info.log receives
// every record at or above level, error.log only errors.
func OpenRunLogs(dir string, level slog.Level) (*RunLogs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	info, err := os.OpenFile(filepath.Join(dir, InfoLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open info log: %w", err)
	}
	errs, err := os.OpenFile(filepath.Join(dir, ErrorLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		info.Close()
		return nil, fmt.Errorf("open error log: %w", err)
	}
	return &RunLogs{info: info, errs: errs, level: level}, nil
}

// Handlers returns the file handlers.
func (r *RunLogs) Handlers() []slog.Handler {
	return []slog.Handler{
		slog.NewTextHandler(r.info, &slog.HandlerOptions{Level: r.level}),
		slog.NewTextHandler(r.errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}
}

// Close closes both files.
func (r *RunLogs) Close() error {
	return errors.Join(r.info.Close(), r.errs.Close())
}

// New builds a logger that writes every record to all handlers that accept it.
func New(handlers ...slog.Handler) *slog.Logger {
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(&fanout{handlers: handlers})
}

// fanout dispatches records to several handlers.
type fanout struct {
	handlers []slog.Handler
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: next}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &fanout{handlers: next}
}
