// Package storage persists run artifacts: comment files, CSV tables, JSON
// reports, compressed page snapshots and optional database exports.
package storage

import (
	"context"
	"time"

	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// RunDocument is everything one run produced that is worth exporting.
type RunDocument struct {
	Run        string          `json:"run"                   bson:"run"`
	CreatedAt  time.Time       `json:"created_at"            bson:"created_at"`
	ProductURL string          `json:"product_url,omitempty" bson:"product_url,omitempty"`
	Status     string          `json:"status,omitempty"      bson:"status,omitempty"`
	Comments   []types.Comment `json:"comments"              bson:"comments"`
	Sentiment  []types.Record  `json:"sentiment,omitempty"   bson:"sentiment,omitempty"`
}

// Exporter is the interface for all export backends.
type Exporter interface {
	// Export persists one run.
	Export(ctx context.Context, doc *RunDocument) error

	// Close flushes pending writes and releases resources.
	Close(ctx context.Context) error

	// Name returns the backend identifier.
	Name() string
}
