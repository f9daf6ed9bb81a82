package store

import (
	"context"
	"fmt"

	"github.com/chowgpt/vector-pipeline/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/tmc/langchaingo/embeddings"
)

type PgVectorConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
}

// PgVectorStore writes chunks into a pgvector table on Supabase (or any
// Postgres with the vector extension). Chunk identity is
// (restaurant_id, chunk_type), so re-running the pipeline upserts
// rather than duplicates.
type PgVectorStore struct {
	config   PgVectorConfig
	pool     *pgxpool.Pool
	embedder embeddings.Embedder
}

func NewPgVectorStore(config PgVectorConfig, embedder embeddings.Embedder) (*PgVectorStore, error) {
	if config.TableName == "" {
		config.TableName = "restaurant_chunks"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 1536 // text-embedding-3-small
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ps := &PgVectorStore{
		config:   config,
		pool:     pool,
		embedder: embedder,
	}

	if err := ps.initialize(); err != nil {
		pool.Close()
		return nil, err
	}
	return ps, nil
}

func (ps *PgVectorStore) initialize() error {
	ctx := context.Background()

	_, err := ps.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL,
			chunk_type TEXT NOT NULL,
			content TEXT,
			embedding vector(%d),
			metadata JSONB
		)`, ps.config.TableName, ps.config.VectorDim)

	if _, err := ps.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		ps.config.TableName, ps.config.TableName)

	if _, err := ps.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

func (ps *PgVectorStore) AddDocuments(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.PageContent
	}

	vectors, err := ps.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, received %d", len(chunks), len(vectors))
	}

	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, restaurant_id, chunk_type, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata`,
		ps.config.TableName)

	for i, chunk := range chunks {
		restaurantID := chunk.RestaurantID()
		chunkType := chunk.ChunkType()
		id := fmt.Sprintf("%s:%s", restaurantID, chunkType)

		_, err := tx.Exec(ctx, stmt,
			id,
			restaurantID,
			chunkType,
			chunk.PageContent,
			pgvector.NewVector(vectors[i]),
			chunk.Metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (ps *PgVectorStore) Close() {
	if ps.pool != nil {
		ps.pool.Close()
	}
}
