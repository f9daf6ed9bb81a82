package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/chowgpt/vector-pipeline/pkg/chunker"
	"github.com/chowgpt/vector-pipeline/pkg/config"
	"github.com/chowgpt/vector-pipeline/pkg/fetcher"
	"github.com/chowgpt/vector-pipeline/pkg/pipeline"
	"github.com/chowgpt/vector-pipeline/pkg/store"
	"github.com/chowgpt/vector-pipeline/pkg/tokenizer"
)

type flags struct {
	configPath string
	startFrom  int
	limit      int
	apiURL     string
	backend    string
	batchSize  int
	verbose    bool
}

func main() {
	f := parseFlags()

	if err := run(f); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config file")
	flag.IntVar(&f.startFrom, "start-from", 0, "Start processing from restaurant index (0-based)")
	flag.IntVar(&f.limit, "limit", 0, "Limit number of restaurants to process (0 = unbounded)")
	flag.StringVar(&f.apiURL, "api-url", "", "Restaurant API base URL")
	flag.StringVar(&f.backend, "backend", "", "Vector store backend (pinecone or pgvector)")
	flag.IntVar(&f.batchSize, "batch-size", 0, "Upsert batch size")
	flag.BoolVar(&f.verbose, "v", false, "Enable debug logging")
	flag.Parse()
	return f
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("restaurants"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(f flags) error {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cfg, f)

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config error: %v", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	counter, err := tokenizer.ForModel(cfg.Embedding.Model)
	if err != nil {
		return fmt.Errorf("failed to initialize tokenizer: %w", err)
	}

	builder, err := chunker.NewBuilder(counter, chunker.BuilderConfig{})
	if err != nil {
		return fmt.Errorf("failed to initialize chunk builder: %w", err)
	}

	source, err := fetcher.NewWithConfig(fetcher.ClientConfig{
		BaseURL:        cfg.API.BaseURL,
		PageLimit:      cfg.API.PageLimit,
		MaxRetries:     cfg.API.MaxRetries,
		RetryBaseDelay: cfg.API.RetryBaseDelay,
		RateLimit:      cfg.API.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize fetcher: %w", err)
	}

	vectorStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer vectorStore.Close()

	upserter := store.NewUpserter(vectorStore, store.UpserterConfig{
		BatchSize: cfg.Pipeline.BatchSize,
		Delay:     cfg.Pipeline.UpsertDelay,
	})

	color.Blue("\nStarting restaurant vector pipeline against %s\n", cfg.API.BaseURL)

	var bar *progressbar.ProgressBar
	p, err := pipeline.New(source, builder, upserter, pipeline.Config{
		StartFrom:      f.startFrom,
		Limit:          f.limit,
		FlushThreshold: cfg.Pipeline.FlushThreshold,
		ProgressEvery:  cfg.Pipeline.ProgressEvery,
		OnRestaurant: func(index, total int, title string, chunks int) {
			if bar == nil {
				bar = getProgressBar(total, "🏪 Processing restaurants...")
			}
			bar.Add(1)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	result, err := p.Run(ctx)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	color.Green("\n✓ Processed %d/%d restaurants (%d skipped)\n",
		result.Processed, result.Restaurants, result.Skipped)
	color.Green("✓ Upserted %d documents in %s\n", result.Documents, result.Elapsed.Round(time.Second))
	if result.Processed > 0 {
		color.Green("✓ Average %.1fs per restaurant\n",
			result.Elapsed.Seconds()/float64(result.Processed))
	}
	return nil
}

func applyFlagOverrides(cfg *config.Config, f flags) {
	if f.apiURL != "" {
		cfg.API.BaseURL = f.apiURL
	}
	if f.backend != "" {
		cfg.Pipeline.Backend = f.backend
	}
	if f.batchSize > 0 {
		cfg.Pipeline.BatchSize = f.batchSize
	}
}

func buildStore(cfg *config.Config) (store.VectorStore, error) {
	embedder, err := store.NewOpenAIEmbedder(cfg.Embedding.APIKey, cfg.Embedding.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	switch cfg.Pipeline.Backend {
	case "pgvector":
		return store.NewPgVectorStore(store.PgVectorConfig{
			ConnString: cfg.Database.URL,
			TableName:  cfg.Database.TableName,
			VectorDim:  cfg.Database.VectorDim,
		}, embedder)
	default:
		return store.NewPineconeStore(store.PineconeConfig{
			Host:      cfg.Pinecone.Host,
			APIKey:    cfg.Pinecone.APIKey,
			Namespace: cfg.Pinecone.Namespace,
		}, embedder)
	}
}
