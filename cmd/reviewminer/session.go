package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/logging"
	"github.com/IshaanNene/ReviewMiner/internal/output"
	"github.com/IshaanNene/ReviewMiner/internal/storage"
)

// session is one invocation bound to a run directory. Logs go to the console
// and to the run's info.log and error.log.
type session struct {
	cfg    *config.Config
	run    *output.Run
	logs   *logging.RunLogs
	logger *slog.Logger
}

// newSession allocates a fresh run directory.
func newSession(cfg *config.Config) (*session, error) {
	run, err := output.NewRun(cfg.Output, time.Now())
	if err != nil {
		return nil, err
	}
	return attachSession(cfg, run)
}

// attachSession binds the invocation to an existing run directory.
func attachSession(cfg *config.Config, run *output.Run) (*session, error) {
	logs, err := logging.OpenRunLogs(run.LogsDir(), logging.ParseLevel(cfg.Logging.Level))
	if err != nil {
		return nil, err
	}
	handlers := append([]slog.Handler{logging.Console(cfg.Logging, verbose)}, logs.Handlers()...)
	logger := logging.New(handlers...).With("run", run.Name)

	logger.Info("run started",
		"dir", run.Dir,
		"max_pages", cfg.Crawler.MaxPages,
		"wait_time", fmt.Sprintf("%s-%s", cfg.Crawler.WaitTime.Min, cfg.Crawler.WaitTime.Max),
		"wordcloud", fmt.Sprintf("%dx%d", cfg.Visualization.WordCloud.Width, cfg.Visualization.WordCloud.Height),
	)
	return &session{cfg: cfg, run: run, logs: logs, logger: logger}, nil
}

// signalContext cancels on SIGINT and SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// export sends the run document to every enabled backend. Export failures are
// logged, they never fail the run.
func (s *session) export(ctx context.Context, doc *storage.RunDocument) {
	var backends []storage.Exporter
	if j := s.cfg.Storage.JSONL; j.Enabled {
		path := j.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.cfg.Output.BaseDir, path)
		}
		backends = append(backends, storage.NewJSONLExporter(path, s.logger))
	}
	if s.cfg.Storage.Mongo.Enabled {
		mongo, err := storage.NewMongoExporter(ctx, s.cfg.Storage.Mongo, s.logger)
		if err != nil {
			s.logger.Error("mongodb export unavailable", "error", err)
		} else {
			backends = append(backends, mongo)
		}
	}
	if len(backends) == 0 {
		return
	}

	exp := storage.NewMultiExporter(s.logger, backends...)
	if err := exp.Export(ctx, doc); err != nil {
		s.logger.Error("run export failed", "error", err)
	}
	if err := exp.Close(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("closing exporters", "error", err)
	}
}

// close applies run retention and closes the log files.
func (s *session) close() {
	removed, err := output.Prune(s.cfg.Output.BaseDir, s.cfg.Output.KeepRuns)
	if err != nil {
		s.logger.Warn("pruning old runs failed", "error", err)
	} else if len(removed) > 0 {
		s.logger.Info("old runs removed", "count", len(removed), "runs", removed)
	}
	s.logger.Info("run finished", "dir", s.run.Dir)
	if err := s.logs.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		fmt.Fprintf(os.Stderr, "close run logs: %v\n", err)
	}
}
