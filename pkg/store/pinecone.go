package store

import (
	"context"
	"fmt"

	"github.com/chowgpt/vector-pipeline/internal/models"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores/pinecone"
)

type PineconeConfig struct {
	Host      string // index host URL from the Pinecone console
	APIKey    string
	Namespace string
}

// PineconeStore writes chunks to a Pinecone serverless index through
// the langchaingo vector store, embedding on the way in.
type PineconeStore struct {
	store pinecone.Store
}

func NewPineconeStore(config PineconeConfig, embedder embeddings.Embedder) (*PineconeStore, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("pinecone host is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("pinecone API key is required")
	}

	opts := []pinecone.Option{
		pinecone.WithHost(config.Host),
		pinecone.WithAPIKey(config.APIKey),
		pinecone.WithEmbedder(embedder),
	}
	if config.Namespace != "" {
		opts = append(opts, pinecone.WithNameSpace(config.Namespace))
	}

	store, err := pinecone.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pinecone store: %w", err)
	}
	return &PineconeStore{store: store}, nil
}

func (ps *PineconeStore) AddDocuments(ctx context.Context, chunks []models.Chunk) error {
	if _, err := ps.store.AddDocuments(ctx, toSchemaDocuments(chunks)); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (ps *PineconeStore) Close() {}
