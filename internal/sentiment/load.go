package sentiment

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/output"
	"github.com/IshaanNene/ReviewMiner/internal/storage"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// LoadComments reads the comment file of every run under cfg.BaseDir whose
// name starts with prefix (all runs when empty). Each comment is tagged with
// its run name. The newest run that had comments is returned as latest.
func LoadComments(cfg config.OutputConfig, prefix string, logger *slog.Logger) (comments []types.Comment, latest string, err error) {
	runs, err := output.ListRuns(cfg.BaseDir, prefix)
	if err != nil {
		return nil, "", fmt.Errorf("list runs: %w", err)
	}

	for _, run := range runs {
		path := filepath.Join(cfg.BaseDir, run, cfg.Subdirs.Data, cfg.FileNames.Comments)
		loaded, err := storage.ReadComments(path, run)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		if len(loaded) == 0 {
			continue
		}
		comments = append(comments, loaded...)
		latest = run
		logger.Debug("comments loaded", "run", run, "count", len(loaded))
	}

	if len(comments) == 0 {
		return nil, "", fmt.Errorf("%w under %s (prefix %q)", types.ErrNoComments, cfg.BaseDir, prefix)
	}
	logger.Info("comments loaded", "runs", len(runs), "comments", len(comments), "latest", latest)
	return comments, latest, nil
}
