// Package output manages the timestamped run directories that hold every
// artifact of one invocation.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/IshaanNene/ReviewMiner/internal/config"
)

// TimestampLayout is the name format of run directories.
const TimestampLayout = "20060102_150405"

var runNamePattern = regexp.MustCompile(`^\d{8}_\d{6}`)

// Run is one allocated run directory.
type Run struct {
	Name    string
	Dir     string
	subdirs config.SubdirConfig
	files   config.FileNamesConfig
}

// NewRun creates <base>/<YYYYMMDD_HHMMSS> and its fixed subdirectories.
// When a run with the same second already exists a numeric suffix is added.
func NewRun(cfg config.OutputConfig, now time.Time) (*Run, error) {
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output base: %w", err)
	}

	base := now.Format(TimestampLayout)
	name := base
	for i := 1; ; i++ {
		err := os.Mkdir(filepath.Join(cfg.BaseDir, name), 0o755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create run dir: %w", err)
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}

	r := &Run{
		Name:    name,
		Dir:     filepath.Join(cfg.BaseDir, name),
		subdirs: cfg.Subdirs,
		files:   cfg.FileNames,
	}
	for _, sub := range []string{cfg.Subdirs.Data, cfg.Subdirs.Visualization, cfg.Subdirs.Logs, cfg.Subdirs.Snapshots} {
		if sub == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Join(r.Dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", sub, err)
		}
	}
	return r, nil
}

// OpenRun addresses an existing run directory, recreating the data and
// visualization subdirectories if they were removed.
func OpenRun(cfg config.OutputConfig, name string) (*Run, error) {
	dir := filepath.Join(cfg.BaseDir, name)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open run %s: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open run %s: not a directory", name)
	}
	r := &Run{Name: name, Dir: dir, subdirs: cfg.Subdirs, files: cfg.FileNames}
	for _, sub := range []string{cfg.Subdirs.Data, cfg.Subdirs.Visualization} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", sub, err)
		}
	}
	return r, nil
}

// Path joins a file name onto a subdirectory of the run. An empty subdir
// addresses the run root.
func (r *Run) Path(subdir, name string) string {
	return filepath.Join(r.Dir, subdir, name)
}

// DataPath returns a path under the data subdirectory.
func (r *Run) DataPath(name string) string { return r.Path(r.subdirs.Data, name) }

// VisualizationPath returns a path under the visualization subdirectory.
func (r *Run) VisualizationPath(name string) string { return r.Path(r.subdirs.Visualization, name) }

// LogsDir returns the logs subdirectory.
func (r *Run) LogsDir() string { return filepath.Join(r.Dir, r.subdirs.Logs) }

// SnapshotsDir returns the snapshots subdirectory.
func (r *Run) SnapshotsDir() string { return filepath.Join(r.Dir, r.subdirs.Snapshots) }

// CommentsPath is where the crawled comments are written.
func (r *Run) CommentsPath() string { return r.DataPath(r.files.Comments) }

// WordFreqPath is where the word frequency CSV is written.
func (r *Run) WordFreqPath() string { return r.DataPath(r.files.WordFreq) }

// TopicAnalysisPath is where the topic summary CSV is written.
func (r *Run) TopicAnalysisPath() string { return r.DataPath(r.files.TopicAnalysis) }

// SentimentReportPath is where the sentiment JSON report is written.
func (r *Run) SentimentReportPath() string { return r.DataPath(r.files.SentimentReport) }

// ListRuns returns the run directory names under base whose name starts with
// prefix, oldest first. Directories not named like a run are ignored.
func ListRuns(base, prefix string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || !runNamePattern.MatchString(e.Name()) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Prune deletes all but the newest keep run directories under base and
// returns the removed names. Removal failures are collected, not fatal.
func Prune(base string, keep int) ([]string, error) {
	names, err := ListRuns(base, "")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list runs: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if keep < 0 {
		keep = 0
	}
	if len(names) <= keep {
		return nil, nil
	}

	var removed []string
	var errs []error
	for _, name := range names[keep:] {
		if err := os.RemoveAll(filepath.Join(base, name)); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
			continue
		}
		removed = append(removed, name)
	}
	return removed, errors.Join(errs...)
}
