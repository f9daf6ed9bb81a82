package store

import (
	"context"
	"fmt"

	"github.com/chowgpt/vector-pipeline/internal/models"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// VectorStore accepts batches of chunks for embedding and storage.
// Implementations embed the page content themselves.
type VectorStore interface {
	AddDocuments(ctx context.Context, chunks []models.Chunk) error
	Close()
}

// NewOpenAIEmbedder builds the embedder both store backends share.
func NewOpenAIEmbedder(apiKey, model string) (embeddings.Embedder, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	return embedder, nil
}

func toSchemaDocuments(chunks []models.Chunk) []schema.Document {
	docs := make([]schema.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = schema.Document{
			PageContent: chunk.PageContent,
			Metadata:    chunk.Metadata,
		}
	}
	return docs
}
