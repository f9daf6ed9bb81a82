package main

import (
	"flag"
	"log"

	"github.com/fatih/color"

	"github.com/chowgpt/vector-pipeline/pkg/export"
)

func main() {
	input := flag.String("input", "full_restaurant.json", "Restaurant JSON file to read")
	output := flag.String("output", "restaurants.csv", "CSV file to write")
	flag.Parse()

	color.Blue("Converting %s to CSV...", *input)

	count, columns, err := export.ConvertJSONToCSV(*input, *output)
	if err != nil {
		log.Fatal(err)
	}

	color.Green("✓ Converted %d restaurants to %s (%d columns)", count, *output, len(columns))
}
