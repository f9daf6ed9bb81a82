package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CHOWGPT_API_URL", "")
	t.Setenv("DATABASE_URL", "")
	path := writeConfig(t, `
api:
  base_url: "https://api.chowgpt.co.za/api"
  page_limit: 25
  max_retries: 3
  retry_base_delay: 2s
  rate_limit: 1.5

embedding:
  model: "text-embedding-3-large"

pinecone:
  host: "https://restaurants-abc123.svc.pinecone.io"
  namespace: "cape-town"

database:
  url: "postgres://localhost:5432/chowgpt"
  table_name: "chunks"
  vector_dim: 3072

pipeline:
  backend: "pgvector"
  batch_size: 25
  upsert_delay: 500ms
  flush_threshold: 100
  progress_every: 5
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.chowgpt.co.za/api", config.API.BaseURL)
	assert.Equal(t, 25, config.API.PageLimit)
	assert.Equal(t, 3, config.API.MaxRetries)
	assert.Equal(t, 2*time.Second, config.API.RetryBaseDelay)
	assert.Equal(t, 1.5, config.API.RateLimit)

	assert.Equal(t, "text-embedding-3-large", config.Embedding.Model)
	assert.Equal(t, "https://restaurants-abc123.svc.pinecone.io", config.Pinecone.Host)
	assert.Equal(t, "cape-town", config.Pinecone.Namespace)

	assert.Equal(t, "postgres://localhost:5432/chowgpt", config.Database.URL)
	assert.Equal(t, "chunks", config.Database.TableName)
	assert.Equal(t, 3072, config.Database.VectorDim)

	assert.Equal(t, "pgvector", config.Pipeline.Backend)
	assert.Equal(t, 25, config.Pipeline.BatchSize)
	assert.Equal(t, 500*time.Millisecond, config.Pipeline.UpsertDelay)
	assert.Equal(t, 100, config.Pipeline.FlushThreshold)
	assert.Equal(t, 5, config.Pipeline.ProgressEvery)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CHOWGPT_API_URL", "")
	path := writeConfig(t, `
api:
  base_url: "http://localhost:3001/api"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 50, config.API.PageLimit)
	assert.Equal(t, 5, config.API.MaxRetries)
	assert.Equal(t, 5*time.Second, config.API.RetryBaseDelay)
	assert.Equal(t, 2.0, config.API.RateLimit)
	assert.Equal(t, "text-embedding-3-small", config.Embedding.Model)
	assert.Equal(t, "restaurant_chunks", config.Database.TableName)
	assert.Equal(t, 1536, config.Database.VectorDim)
	assert.Equal(t, "pinecone", config.Pipeline.Backend)
	assert.Equal(t, 50, config.Pipeline.BatchSize)
	assert.Equal(t, time.Second, config.Pipeline.UpsertDelay)
	assert.Equal(t, 250, config.Pipeline.FlushThreshold)
	assert.Equal(t, 10, config.Pipeline.ProgressEvery)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CHOWGPT_API_URL", "https://staging.chowgpt.co.za/api")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PINECONE_API_KEY", "pc-test")
	t.Setenv("PINECONE_HOST", "https://staging.svc.pinecone.io")
	t.Setenv("DATABASE_URL", "postgres://staging:5432/chowgpt")

	path := writeConfig(t, `
api:
  base_url: "http://localhost:3001/api"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.chowgpt.co.za/api", config.API.BaseURL)
	assert.Equal(t, "sk-test", config.Embedding.APIKey)
	assert.Equal(t, "pc-test", config.Pinecone.APIKey)
	assert.Equal(t, "https://staging.svc.pinecone.io", config.Pinecone.Host)
	assert.Equal(t, "postgres://staging:5432/chowgpt", config.Database.URL)
}

func TestLoadConfig_KeysNeverFromFile(t *testing.T) {
	path := writeConfig(t, `
embedding:
  apikey: "sk-from-file"
pinecone:
  apikey: "pc-from-file"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.NotEqual(t, "sk-from-file", config.Embedding.APIKey)
	assert.NotEqual(t, "pc-from-file", config.Pinecone.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [not a mapping")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)
	config.Pinecone.Host = "https://restaurants-abc123.svc.pinecone.io"

	assert.Empty(t, config.Validate())
}

func TestValidate_MissingPineconeHost(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)
	config.Pinecone.Host = ""

	errors := config.Validate()
	require.Len(t, errors, 1)
	assert.Equal(t, "pinecone.host", errors[0].Field)
}

func TestValidate_PgVectorNeedsDatabaseURL(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)
	config.Pipeline.Backend = "pgvector"
	config.Database.URL = ""

	errors := config.Validate()
	require.Len(t, errors, 1)
	assert.Equal(t, "database.url", errors[0].Field)
}

func TestValidate_UnknownBackend(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)
	config.Pipeline.Backend = "chroma"

	errors := config.Validate()
	require.Len(t, errors, 1)
	assert.Equal(t, "pipeline.backend", errors[0].Field)
	assert.Contains(t, errors[0].Message, "chroma")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	config := &Config{}

	fields := make(map[string]bool)
	for _, verr := range config.Validate() {
		fields[verr.Field] = true
	}

	assert.True(t, fields["api.base_url"])
	assert.True(t, fields["api.page_limit"])
	assert.True(t, fields["embedding.model"])
	assert.True(t, fields["pipeline.backend"])
	assert.True(t, fields["pipeline.batch_size"])
}
