package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.API.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "restaurant API base URL is required",
		})
	} else if _, err := url.Parse(c.API.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "invalid restaurant API base URL",
		})
	}

	if c.API.PageLimit < 1 {
		errors = append(errors, ValidationError{
			Field:   "api.page_limit",
			Message: "page_limit must be positive",
		})
	}

	if c.API.MaxRetries < 1 {
		errors = append(errors, ValidationError{
			Field:   "api.max_retries",
			Message: "max_retries must be positive",
		})
	}

	if c.API.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "api.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Embedding.Model == "" {
		errors = append(errors, ValidationError{
			Field:   "embedding.model",
			Message: "embedding model is required",
		})
	}

	switch c.Pipeline.Backend {
	case "pinecone":
		if c.Pinecone.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "pinecone.host",
				Message: "pinecone host is required for the pinecone backend",
			})
		}
	case "pgvector":
		if c.Database.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "database URL is required for the pgvector backend",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "pipeline.backend",
			Message: fmt.Sprintf("unknown backend %q, want pinecone or pgvector", c.Pipeline.Backend),
		})
	}

	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	if c.Pipeline.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "pipeline.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.Pipeline.FlushThreshold < 1 {
		errors = append(errors, ValidationError{
			Field:   "pipeline.flush_threshold",
			Message: "flush_threshold must be positive",
		})
	}

	return errors
}
