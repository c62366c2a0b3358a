package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/ReviewMiner/internal/config"
	"github.com/IshaanNene/ReviewMiner/internal/types"
)

// MongoExporter writes one document per run to a MongoDB collection.
type MongoExporter struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
	count      int
	logger     *slog.Logger
}

// NewMongoExporter connects to MongoDB and verifies the connection.
func NewMongoExporter(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*MongoExporter, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("connect: %w", err)}
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("ping: %w", err)}
	}

	return &MongoExporter{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		timeout:    timeout,
		logger:     logger.With("component", "mongo_export"),
	}, nil
}

func (e *MongoExporter) Name() string { return "mongodb" }

func (e *MongoExporter) Export(ctx context.Context, doc *RunDocument) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if _, err := e.collection.InsertOne(ctx, doc); err != nil {
		return &types.StorageError{Backend: e.Name(), Err: fmt.Errorf("insert: %w", err)}
	}

	e.count++
	e.logger.Info("run exported", "run", doc.Run, "comments", len(doc.Comments), "records", len(doc.Sentiment))
	return nil
}

func (e *MongoExporter) Close(ctx context.Context) error {
	e.logger.Debug("mongodb exporter closing", "runs", e.count)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return e.client.Disconnect(ctx)
}

// MultiExporter writes runs to several backends.
type MultiExporter struct {
	backends []Exporter
	logger   *slog.Logger
}

// NewMultiExporter creates an exporter that fans out to backends.
func NewMultiExporter(logger *slog.Logger, backends ...Exporter) *MultiExporter {
	return &MultiExporter{
		backends: backends,
		logger:   logger.With("component", "multi_export"),
	}
}

func (e *MultiExporter) Name() string { return "multi" }

// Len returns the number of backends.
func (e *MultiExporter) Len() int { return len(e.backends) }

func (e *MultiExporter) Export(ctx context.Context, doc *RunDocument) error {
	var firstErr error
	for _, backend := range e.backends {
		if err := backend.Export(ctx, doc); err != nil {
			e.logger.Error("backend export failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (e *MultiExporter) Close(ctx context.Context) error {
	var firstErr error
	for _, backend := range e.backends {
		if err := backend.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
