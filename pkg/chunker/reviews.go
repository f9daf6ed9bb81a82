package chunker

import (
	"fmt"
	"strings"

	"github.com/chowgpt/vector-pipeline/internal/models"
)

// reviewSeparator joins formatted reviews inside one chunk. Consumers
// rely on it to recover individual reviews, so it never changes.
const reviewSeparator = " | "

// reviewChunks packs every non-empty review into chunks under the token
// budget. Each chunk repeats the same preamble (name, rating tier,
// experience themes, price) so any single chunk stands on its own for
// retrieval. A single oversized review is kept whole even when that
// pushes its chunk past the budget.
func (b *Builder) reviewChunks(summary models.RestaurantSummary, detail *models.RestaurantDetail) []models.Chunk {
	if len(detail.Reviews) == 0 {
		return nil
	}

	price := extractPrice(summary, detail)
	preamble := b.reviewPreamble(summary, detail, price)
	preambleTokens := b.tokens.Count(preamble)

	var formatted []string
	for _, review := range detail.Reviews {
		text := strings.TrimSpace(review.Text)
		if text == "" {
			continue
		}
		name := review.ReviewerName
		if name == "" {
			name = "Customer"
		}
		formatted = append(formatted, fmt.Sprintf("Review by %s (%g/5): %s", name, review.Rating, text))
	}
	if len(formatted) == 0 {
		return nil
	}

	// Greedy bin packing over token counts, in input order.
	var groups [][]string
	var current []string
	currentTokens := preambleTokens

	for _, entry := range formatted {
		entryTokens := b.tokens.Count(entry)
		if currentTokens+entryTokens > b.config.MaxChunkTokens && len(current) > 0 {
			groups = append(groups, current)
			current = []string{entry}
			currentTokens = preambleTokens + entryTokens
		} else {
			current = append(current, entry)
			currentTokens += entryTokens
		}
	}
	groups = append(groups, current)

	chunks := make([]models.Chunk, 0, len(groups))
	for i, group := range groups {
		chunkType := "reviews"
		if len(groups) > 1 {
			chunkType = fmt.Sprintf("reviews_part_%d", i+1)
		}
		chunks = append(chunks, models.Chunk{
			PageContent: preamble + " " + strings.Join(group, reviewSeparator),
			Metadata: map[string]any{
				"restaurant_id": summary.ID,
				"chunk_type":    chunkType,
				"name":          displayTitle(summary),
				"rating":        summary.TotalScore,
				"price_min":     price.Min,
				"price_max":     price.Max,
				"high_rated":    summary.TotalScore >= 4.0,
				"exceptional":   summary.TotalScore >= 4.5,
				"affordable":    price.Max > 0 && price.Max <= 300,
				"mid_range":     price.Min >= 200 && price.Max <= 500,
				"upscale":       price.Min >= 400,
				"review_count":  len(group),
				"total_reviews": len(detail.Reviews),
			},
		})
	}
	return chunks
}

func (b *Builder) reviewPreamble(summary models.RestaurantSummary, detail *models.RestaurantDetail, price PriceIntel) string {
	parts := []string{fmt.Sprintf("%s customer reviews and dining experiences:", displayTitle(summary))}

	switch {
	case summary.TotalScore >= 4.5:
		parts = append(parts, "Exceptional dining experience with outstanding customer satisfaction.")
	case summary.TotalScore >= 4.0:
		parts = append(parts, "High-quality dining experience with positive customer feedback.")
	case summary.TotalScore >= 3.5:
		parts = append(parts, "Good dining option with generally satisfied customers.")
	}

	if themes := b.extractThemes(detail.Reviews); themes != "" {
		parts = append(parts, capitalize(themes)+".")
	}

	parts = append(parts, capitalize(price.Description)+".")

	return strings.Join(parts, " ")
}
