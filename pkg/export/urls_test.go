package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeURLFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restaurants.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRestaurantURLs(t *testing.T) {
	path := writeURLFixture(t, `[
        {"url": "https://maps.example.com/place/1", "title": "One"},
        {"title": "No URL"},
        {"url": "https://maps.example.com/place/2"}
    ]`)

	urls, err := LoadRestaurantURLs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://maps.example.com/place/1",
		"https://maps.example.com/place/2",
	}, urls)
}

func TestLoadRestaurantURLs_InvalidJSON(t *testing.T) {
	path := writeURLFixture(t, `{"not": "an array"}`)
	_, err := LoadRestaurantURLs(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON format")
}

func TestLoadRestaurantURLs_MissingFile(t *testing.T) {
	_, err := LoadRestaurantURLs(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSplitURLBatches(t *testing.T) {
	urls := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		urls = append(urls, fmt.Sprintf("https://maps.example.com/place/%d", i))
	}

	prefix := filepath.Join(t.TempDir(), "restaurant_urls_batch")
	files, err := SplitURLBatches(urls, prefix, 10)
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, prefix+"_1.json", files[0])
	assert.Equal(t, prefix+"_3.json", files[2])

	sizes := []int{10, 10, 5}
	for i, name := range files {
		data, err := os.ReadFile(name)
		require.NoError(t, err)

		var entries []URLEntry
		require.NoError(t, json.Unmarshal(data, &entries))
		assert.Len(t, entries, sizes[i])
		for _, entry := range entries {
			assert.Equal(t, "GET", entry.Method)
			assert.NotEmpty(t, entry.URL)
		}
	}

	// Batches partition the input in order.
	data, err := os.ReadFile(files[2])
	require.NoError(t, err)
	var last []URLEntry
	require.NoError(t, json.Unmarshal(data, &last))
	assert.Equal(t, "https://maps.example.com/place/20", last[0].URL)
	assert.Equal(t, "https://maps.example.com/place/24", last[4].URL)
}

func TestSplitURLBatches_NoURLs(t *testing.T) {
	files, err := SplitURLBatches(nil, filepath.Join(t.TempDir(), "batch"), 10)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSplitURLBatches_InvalidMax(t *testing.T) {
	_, err := SplitURLBatches([]string{"https://example.com"}, "batch", 0)
	assert.Error(t, err)
}
