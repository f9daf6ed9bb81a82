package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	PageLimit      int           `yaml:"page_limit"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	RateLimit      float64       `yaml:"rate_limit"`
}

type EmbeddingConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"` // env only, never from file
}

type PineconeConfig struct {
	Host      string `yaml:"host"`
	Namespace string `yaml:"namespace"`
	APIKey    string `yaml:"-"` // env only, never from file
}

type DatabaseConfig struct {
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
	VectorDim int    `yaml:"vector_dim"`
}

type PipelineConfig struct {
	Backend        string        `yaml:"backend"` // "pinecone" or "pgvector"
	BatchSize      int           `yaml:"batch_size"`
	UpsertDelay    time.Duration `yaml:"upsert_delay"`
	FlushThreshold int           `yaml:"flush_threshold"`
	ProgressEvery  int           `yaml:"progress_every"`
}

type Config struct {
	API       APIConfig       `yaml:"api"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Pinecone  PineconeConfig  `yaml:"pinecone"`
	Database  DatabaseConfig  `yaml:"database"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
}

// LoadConfig reads the YAML config, merges environment variables over
// it, and fills in defaults. A .env file next to the process is loaded
// first if present. An empty path falls back to the default locations.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/chowgpt/config.yaml"),
			"/etc/chowgpt/config.yaml",
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.API.BaseURL == "" {
		config.API.BaseURL = "http://localhost:3001/api"
	}
	if config.API.PageLimit == 0 {
		config.API.PageLimit = 50
	}
	if config.API.MaxRetries == 0 {
		config.API.MaxRetries = 5
	}
	if config.API.RetryBaseDelay == 0 {
		config.API.RetryBaseDelay = 5 * time.Second
	}
	if config.API.RateLimit == 0 {
		config.API.RateLimit = 2.0
	}

	if config.Embedding.Model == "" {
		config.Embedding.Model = "text-embedding-3-small"
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "restaurant_chunks"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 1536
	}

	if config.Pipeline.Backend == "" {
		config.Pipeline.Backend = "pinecone"
	}
	if config.Pipeline.BatchSize == 0 {
		config.Pipeline.BatchSize = 50
	}
	if config.Pipeline.UpsertDelay == 0 {
		config.Pipeline.UpsertDelay = time.Second
	}
	if config.Pipeline.FlushThreshold == 0 {
		config.Pipeline.FlushThreshold = 250
	}
	if config.Pipeline.ProgressEvery == 0 {
		config.Pipeline.ProgressEvery = 10
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("CHOWGPT_API_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.Embedding.APIKey = key
	}
	if key := os.Getenv("PINECONE_API_KEY"); key != "" {
		config.Pinecone.APIKey = key
	}
	if host := os.Getenv("PINECONE_HOST"); host != "" {
		config.Pinecone.Host = host
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
}
