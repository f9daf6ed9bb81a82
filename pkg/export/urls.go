package export

import (
	"encoding/json"
	"fmt"
	"os"
)

// URLEntry is one request line for the scraping service.
type URLEntry struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

// LoadRestaurantURLs reads a scraped restaurant JSON array and returns
// the non-empty url fields, in file order.
func LoadRestaurantURLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	var restaurants []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &restaurants); err != nil {
		return nil, fmt.Errorf("invalid JSON format in %s: %w", path, err)
	}

	var urls []string
	for _, restaurant := range restaurants {
		if restaurant.URL != "" {
			urls = append(urls, restaurant.URL)
		}
	}
	return urls, nil
}

// SplitURLBatches partitions urls into GET request entries and writes
// them as <prefix>_<n>.json files of at most maxPerFile entries each.
// It returns the file names written.
func SplitURLBatches(urls []string, prefix string, maxPerFile int) ([]string, error) {
	if maxPerFile <= 0 {
		return nil, fmt.Errorf("max URLs per file must be positive, got %d", maxPerFile)
	}

	var files []string
	for start := 0; start < len(urls); start += maxPerFile {
		end := start + maxPerFile
		if end > len(urls) {
			end = len(urls)
		}

		entries := make([]URLEntry, 0, end-start)
		for _, url := range urls[start:end] {
			entries = append(entries, URLEntry{URL: url, Method: "GET"})
		}

		name := fmt.Sprintf("%s_%d.json", prefix, len(files)+1)
		data, err := json.MarshalIndent(entries, "", "    ")
		if err != nil {
			return files, err
		}
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return files, fmt.Errorf("could not write %s: %w", name, err)
		}
		files = append(files, name)
	}
	return files, nil
}
