package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens with the BPE encoding of a specific embedding
// model, so chunk budgets line up with what the embedding API bills.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// ForModel returns a Counter using the encoding registered for model
// (e.g. "text-embedding-3-small"). It fails if the encoding cannot be
// resolved; there is no approximate fallback.
func ForModel(model string) (*Counter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("resolving encoding for model %q: %w", model, err)
	}
	return &Counter{encoding: encoding}, nil
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}
