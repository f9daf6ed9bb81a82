package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chowgpt/vector-pipeline/internal/models"
)

func TestToSchemaDocuments(t *testing.T) {
	chunks := []models.Chunk{
		{
			PageContent: "The Codfather is a Seafood restaurant located in Camps Bay, Cape Town.",
			Metadata:    map[string]any{"restaurant_id": "rest-001", "chunk_type": "overview"},
		},
		{
			PageContent: "Open late for dining on Friday.",
			Metadata:    map[string]any{"restaurant_id": "rest-001", "chunk_type": "operational"},
		},
	}

	docs := toSchemaDocuments(chunks)
	require.Len(t, docs, 2)
	assert.Equal(t, chunks[0].PageContent, docs[0].PageContent)
	assert.Equal(t, "overview", docs[0].Metadata["chunk_type"])
	assert.Equal(t, "operational", docs[1].Metadata["chunk_type"])
}
