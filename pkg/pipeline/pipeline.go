package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chowgpt/vector-pipeline/internal/models"
	"github.com/chowgpt/vector-pipeline/pkg/fetcher"
)

// Source provides the restaurant list and per-restaurant detail. The
// fetcher.Client satisfies this.
type Source interface {
	FetchSummaries(ctx context.Context) ([]models.RestaurantSummary, error)
	FetchDetail(ctx context.Context, id string) (*models.RestaurantDetail, error)
}

// ChunkBuilder turns one restaurant into its chunks. The
// chunker.Builder satisfies this.
type ChunkBuilder interface {
	BuildChunks(summary models.RestaurantSummary, detail *models.RestaurantDetail) ([]models.Chunk, error)
}

// Sink receives accumulated chunks on flush. The store.Upserter
// satisfies this.
type Sink interface {
	Upsert(ctx context.Context, chunks []models.Chunk) error
}

type Config struct {
	StartFrom      int // 0-based resume offset into the restaurant list
	Limit          int // 0 means unbounded
	FlushThreshold int // accumulated documents that trigger a flush
	ProgressEvery  int // restaurants between progress reports
	Logger         *slog.Logger

	// OnRestaurant, if set, is called after each restaurant is handled
	// (chunks == 0 means it was skipped). Used by the CLI progress bar.
	OnRestaurant func(index, total int, title string, chunks int)
}

// Result summarizes one pipeline run.
type Result struct {
	Restaurants int // restaurants in the resume window
	Processed   int // restaurants that produced chunks
	Skipped     int
	Documents   int // total chunks flushed
	Elapsed     time.Duration
}

// Pipeline drives fetch -> build -> batch-upsert over the restaurant
// set, strictly sequentially, flushing the accumulator whenever it
// reaches the configured threshold.
type Pipeline struct {
	source  Source
	builder ChunkBuilder
	sink    Sink
	config  Config
	logger  *slog.Logger
}

func New(source Source, builder ChunkBuilder, sink Sink, config Config) (*Pipeline, error) {
	if source == nil {
		return nil, errors.New("source is required")
	}
	if builder == nil {
		return nil, errors.New("chunk builder is required")
	}
	if sink == nil {
		return nil, errors.New("sink is required")
	}
	if config.FlushThreshold == 0 {
		config.FlushThreshold = 250
	}
	if config.ProgressEvery == 0 {
		config.ProgressEvery = 10
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Pipeline{
		source:  source,
		builder: builder,
		sink:    sink,
		config:  config,
		logger:  config.Logger.With("component", "pipeline"),
	}, nil
}

// Run executes one full pass. List fetch and upsert errors abort the
// run; missing detail or a per-restaurant build error only skips that
// restaurant.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	restaurants, err := p.source.FetchSummaries(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetching restaurant list: %w", err)
	}

	restaurants = p.resumeWindow(restaurants)
	result := Result{Restaurants: len(restaurants)}
	p.logger.Info("processing restaurants",
		"count", len(restaurants), "start_from", p.config.StartFrom, "limit", p.config.Limit)

	var accumulated []models.Chunk

	for i, restaurant := range restaurants {
		chunks := p.processRestaurant(ctx, restaurant)
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if len(chunks) > 0 {
			accumulated = append(accumulated, chunks...)
			result.Processed++
		} else {
			result.Skipped++
		}

		if p.config.OnRestaurant != nil {
			p.config.OnRestaurant(i+1, len(restaurants), restaurant.Title, len(chunks))
		}

		if (i+1)%p.config.ProgressEvery == 0 {
			elapsed := time.Since(start)
			remaining := time.Duration(float64(elapsed) / float64(i+1) * float64(len(restaurants)-i-1))
			p.logger.Info("progress",
				"done", i+1, "total", len(restaurants),
				"elapsed", elapsed.Round(time.Second),
				"remaining", remaining.Round(time.Second))
		}

		if len(accumulated) >= p.config.FlushThreshold {
			if err := p.sink.Upsert(ctx, accumulated); err != nil {
				return result, fmt.Errorf("flushing %d documents: %w", len(accumulated), err)
			}
			result.Documents += len(accumulated)
			accumulated = nil
		}
	}

	if len(accumulated) > 0 {
		if err := p.sink.Upsert(ctx, accumulated); err != nil {
			return result, fmt.Errorf("flushing %d remaining documents: %w", len(accumulated), err)
		}
		result.Documents += len(accumulated)
	}

	result.Elapsed = time.Since(start)
	p.logger.Info("pipeline complete",
		"processed", result.Processed, "skipped", result.Skipped,
		"documents", result.Documents, "elapsed", result.Elapsed.Round(time.Second))
	return result, nil
}

// processRestaurant returns the restaurant's chunks, or nil when it
// must be skipped. Skips are logged, never propagated.
func (p *Pipeline) processRestaurant(ctx context.Context, restaurant models.RestaurantSummary) []models.Chunk {
	detail, err := p.source.FetchDetail(ctx, restaurant.ID)
	if err != nil {
		if errors.Is(err, fetcher.ErrDetailUnavailable) {
			p.logger.Warn("skipping restaurant, no detail available",
				"restaurant_id", restaurant.ID, "title", restaurant.Title)
		} else {
			p.logger.Warn("skipping restaurant, detail fetch failed",
				"restaurant_id", restaurant.ID, "title", restaurant.Title, "err", err)
		}
		return nil
	}

	chunks, err := p.builder.BuildChunks(restaurant, detail)
	if err != nil {
		p.logger.Error("skipping restaurant, chunk build failed",
			"restaurant_id", restaurant.ID, "title", restaurant.Title, "err", err)
		return nil
	}
	return chunks
}

func (p *Pipeline) resumeWindow(restaurants []models.RestaurantSummary) []models.RestaurantSummary {
	if p.config.StartFrom > 0 {
		if p.config.StartFrom >= len(restaurants) {
			return nil
		}
		restaurants = restaurants[p.config.StartFrom:]
	}
	if p.config.Limit > 0 && p.config.Limit < len(restaurants) {
		restaurants = restaurants[:p.config.Limit]
	}
	return restaurants
}
