package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chowgpt/vector-pipeline/internal/models"
)

type UpserterConfig struct {
	BatchSize int
	Delay     time.Duration // pause between batch submissions
	Logger    *slog.Logger
	Sleep     func(time.Duration) // overridable in tests
}

// Upserter submits chunks to a VectorStore in fixed-size contiguous
// batches, pausing between submissions to respect upstream rate limits.
// Any submission error is fatal; there is no partial-batch retry.
type Upserter struct {
	store  VectorStore
	config UpserterConfig
	logger *slog.Logger
}

func NewUpserter(store VectorStore, config UpserterConfig) *Upserter {
	if config.BatchSize == 0 {
		config.BatchSize = 50
	}
	if config.Delay == 0 {
		config.Delay = time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Sleep == nil {
		config.Sleep = time.Sleep
	}
	return &Upserter{
		store:  store,
		config: config,
		logger: config.Logger.With("component", "upserter"),
	}
}

// Upsert writes all chunks, last batch possibly short.
func (u *Upserter) Upsert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	total := (len(chunks)-1)/u.config.BatchSize + 1
	u.logger.Info("upserting documents", "documents", len(chunks), "batches", total)

	for i := 0; i < len(chunks); i += u.config.BatchSize {
		end := i + u.config.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		if err := u.store.AddDocuments(ctx, batch); err != nil {
			return fmt.Errorf("failed to upsert batch %d/%d: %w", i/u.config.BatchSize+1, total, err)
		}
		u.logger.Info("upserted batch", "batch", i/u.config.BatchSize+1, "of", total, "size", len(batch))

		if end < len(chunks) {
			u.config.Sleep(u.config.Delay)
		}
	}
	return nil
}
