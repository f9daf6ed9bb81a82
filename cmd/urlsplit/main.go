package main

import (
	"flag"
	"log"

	"github.com/fatih/color"

	"github.com/chowgpt/vector-pipeline/pkg/export"
)

func main() {
	input := flag.String("input", "restaurants.json", "Restaurant JSON file to read")
	prefix := flag.String("prefix", "urls_batch", "Output file name prefix")
	maxPerFile := flag.Int("max-per-file", 150, "Maximum URLs per output file")
	flag.Parse()

	urls, err := export.LoadRestaurantURLs(*input)
	if err != nil {
		log.Fatal(err)
	}
	color.Blue("Extracted %d URLs from %s", len(urls), *input)

	files, err := export.SplitURLBatches(urls, *prefix, *maxPerFile)
	if err != nil {
		log.Fatal(err)
	}

	for i, name := range files {
		start := i * *maxPerFile
		end := start + *maxPerFile
		if end > len(urls) {
			end = len(urls)
		}
		color.Green("✓ Saved %d URLs to %s (URLs %d-%d)", end-start, name, start+1, end)
	}
}
