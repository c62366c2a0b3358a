package pipeline

import (
	"log/slog"

	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// Middleware processes a comment and returns the (possibly modified) comment.
// Return nil to drop the comment from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a comment. Return nil to drop it.
	Process(c *types.Comment) (*types.Comment, error)
}

// Stats counts what a Run kept and where the rest was dropped.
type Stats struct {
	In      int
	Kept    int
	Dropped map[string]int
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) *Pipeline {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
	return p
}

// Process runs the comment through all middleware in order. A nil result
// means the comment was dropped; the name of the dropping stage is returned.
func (p *Pipeline) Process(c types.Comment) (*types.Comment, string, error) {
	current := &c

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, mw.Name(), &types.PipelineError{
				Stage:   mw.Name(),
				Comment: current,
				Err:     err,
			}
		}
		if result == nil {
			return nil, mw.Name(), nil
		}
		current = result
	}

	return current, "", nil
}

// Run processes every comment in order and returns the survivors.
func (p *Pipeline) Run(comments []types.Comment) ([]types.Comment, Stats, error) {
	stats := Stats{In: len(comments), Dropped: make(map[string]int)}
	kept := make([]types.Comment, 0, len(comments))

	for _, c := range comments {
		out, stage, err := p.Process(c)
		if err != nil {
			return kept, stats, err
		}
		if out == nil {
			stats.Dropped[stage]++
			p.logger.Debug("comment dropped", "stage", stage, "source", c.Source)
			continue
		}
		kept = append(kept, *out)
	}

	stats.Kept = len(kept)
	p.logger.Info("pipeline finished", "in", stats.In, "kept", stats.Kept, "dropped", stats.Dropped)
	return kept, stats, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}
