package chunker

import (
	"fmt"
	"strings"

	"github.com/chowgpt/vector-pipeline/internal/models"
)

// TokenCounter reports the token length of a string under the embedding
// model's encoding. The builder never tokenizes text itself.
type TokenCounter interface {
	Count(text string) int
}

type BuilderConfig struct {
	MaxChunkTokens int // review chunk budget
	ThemeReviews   int // how many leading reviews feed theme extraction
	MaxThemes      int
}

// Builder turns one restaurant's summary and detail records into an
// ordered list of semantic chunks. It is pure: no I/O, no mutation of
// its inputs.
type Builder struct {
	config BuilderConfig
	tokens TokenCounter
}

func NewBuilder(tokens TokenCounter, config BuilderConfig) (*Builder, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token counter is required")
	}
	if config.MaxChunkTokens == 0 {
		config.MaxChunkTokens = 800
	}
	if config.ThemeReviews == 0 {
		config.ThemeReviews = 15
	}
	if config.MaxThemes == 0 {
		config.MaxThemes = 5
	}
	return &Builder{config: config, tokens: tokens}, nil
}

// BuildChunks emits, in order: overview, operational, parking/location,
// the review chunks (zero or more), and features. Chunk count per
// restaurant is therefore 4 plus the number of review chunks.
func (b *Builder) BuildChunks(summary models.RestaurantSummary, detail *models.RestaurantDetail) ([]models.Chunk, error) {
	if detail == nil {
		return nil, fmt.Errorf("restaurant %s: detail is required", summary.ID)
	}

	chunks := []models.Chunk{
		b.overviewChunk(summary, detail),
		b.operationalChunk(summary, detail),
		b.parkingLocationChunk(summary, detail),
	}
	chunks = append(chunks, b.reviewChunks(summary, detail)...)
	chunks = append(chunks, b.featuresChunk(summary, detail))
	return chunks, nil
}

func (b *Builder) overviewChunk(summary models.RestaurantSummary, detail *models.RestaurantDetail) models.Chunk {
	title := displayTitle(summary)
	description := detail.Description
	if description == "" {
		description = summary.Description
	}

	parts := []string{
		fmt.Sprintf("%s is a %s located in %s, Cape Town.", title, strings.ToLower(summary.CategoryName), summary.Neighborhood),
	}

	if strings.TrimSpace(description) != "" {
		parts = append(parts, fmt.Sprintf("Restaurant description: %s", strings.TrimSpace(description)))
	}

	if others := otherCategories(summary.Categories, summary.CategoryName, 3); len(others) > 0 {
		parts = append(parts, fmt.Sprintf("This establishment also serves %s cuisine.", strings.ToLower(strings.Join(others, ", "))))
	}

	if summary.TotalScore > 0 {
		parts = append(parts, fmt.Sprintf("Highly rated with %g stars from %d customer reviews.", summary.TotalScore, summary.ReviewsCount))
	}

	switch {
	case summary.TotalScore >= 4.5:
		parts = append(parts, "Consistently recognized as an exceptional dining destination.")
	case summary.TotalScore >= 4.0:
		parts = append(parts, "Well-regarded for quality and service.")
	}

	if summary.Address != "" {
		parts = append(parts, fmt.Sprintf("Conveniently located at %s.", summary.Address))
	}

	return models.Chunk{
		PageContent: strings.Join(parts, " "),
		Metadata: map[string]any{
			"restaurant_id":   summary.ID,
			"chunk_type":      "overview",
			"name":            title,
			"neighborhood":    summary.Neighborhood,
			"cuisine_primary": summary.CategoryName,
			"cuisine_tags":    firstN(summary.Categories, 5),
			"rating":          summary.TotalScore,
			"review_count":    summary.ReviewsCount,
			"address":         summary.Address,
		},
	}
}

func (b *Builder) operationalChunk(summary models.RestaurantSummary, detail *models.RestaurantDetail) models.Chunk {
	title := displayTitle(summary)
	services := detail.Services

	parts := []string{fmt.Sprintf("%s operational information:", title)}

	// Purely lexical scan of the free-text hours; no numeric parsing.
	// With no opening-hours data at all, both flags stay false.
	lateDays := daysMatching(detail.OpeningHours, lateTokens)
	earlyDays := daysMatching(detail.OpeningHours, earlyTokens)

	if len(detail.OpeningHours) > 0 {
		if len(lateDays) > 0 {
			parts = append(parts, fmt.Sprintf("Open late for dining on %s.", strings.Join(firstN(lateDays, 3), ", ")))
		}
		if len(earlyDays) > 0 {
			parts = append(parts, fmt.Sprintf("Early dining available on %s.", strings.Join(firstN(earlyDays, 3), ", ")))
		}
		parts = append(parts, "Operating hours vary by day, with full weekly schedule available.")
	}

	var serviceFeatures []string
	if services.DineIn {
		serviceFeatures = append(serviceFeatures, "dine-in service")
	}
	if services.Takeaway {
		serviceFeatures = append(serviceFeatures, "takeaway orders")
	}
	if services.Delivery {
		serviceFeatures = append(serviceFeatures, "delivery service")
	}
	if services.Reservations {
		serviceFeatures = append(serviceFeatures, "accepts reservations")
	}
	if len(serviceFeatures) > 0 {
		parts = append(parts, fmt.Sprintf("Offers %s.", strings.Join(serviceFeatures, ", ")))
	}

	var accessibility []string
	if services.WheelchairAccessible {
		accessibility = append(accessibility, "wheelchair accessible")
	}
	if services.GoodForKids {
		accessibility = append(accessibility, "family-friendly with children welcome")
	}
	if services.GoodForGroups {
		accessibility = append(accessibility, "accommodates large groups")
	}
	if len(accessibility) > 0 {
		parts = append(parts, fmt.Sprintf("Features include %s.", strings.Join(accessibility, ", ")))
	}

	var amenities []string
	if services.AcceptsCreditCards {
		amenities = append(amenities, "accepts credit cards")
	}
	if services.HasWifi {
		amenities = append(amenities, "provides Wi-Fi")
	}
	if services.OutdoorSeating {
		amenities = append(amenities, "outdoor seating available")
	}
	if len(amenities) > 0 {
		parts = append(parts, fmt.Sprintf("Additional amenities: %s.", strings.Join(amenities, ", ")))
	}

	if detail.Phone != "" {
		parts = append(parts, fmt.Sprintf("Contact available at %s.", detail.Phone))
	}
	if detail.Website != "" {
		parts = append(parts, "Website and online information available.")
	}

	return models.Chunk{
		PageContent: strings.Join(parts, " "),
		Metadata: map[string]any{
			"restaurant_id":         summary.ID,
			"chunk_type":            "operational",
			"name":                  title,
			"open_late":             len(lateDays) > 0,
			"open_early":            len(earlyDays) > 0,
			"accepts_reservations":  services.Reservations,
			"delivery_available":    services.Delivery,
			"takeaway_available":    services.Takeaway,
			"wheelchair_accessible": services.WheelchairAccessible,
			"family_friendly":       services.GoodForKids,
			"good_for_groups":       services.GoodForGroups,
			"outdoor_seating":       services.OutdoorSeating,
			"has_wifi":              services.HasWifi,
		},
	}
}

func (b *Builder) parkingLocationChunk(summary models.RestaurantSummary, detail *models.RestaurantDetail) models.Chunk {
	title := displayTitle(summary)
	neighborhood := strings.ToLower(summary.Neighborhood)

	parking := extractParking(detail)

	parts := []string{fmt.Sprintf("%s location and parking information:", title)}

	if summary.Neighborhood != "" {
		parts = append(parts, fmt.Sprintf("Situated in %s, a popular dining area in Cape Town.", summary.Neighborhood))
		if sentence := classifyNeighborhood(neighborhood); sentence != "" {
			parts = append(parts, sentence)
		}
	}

	parts = append(parts, capitalize(parking.Description)+".")

	if containsAny(strings.ToLower(summary.Address), majorStreets) {
		parts = append(parts, "Located on a major Cape Town street with good accessibility.")
	}

	return models.Chunk{
		PageContent: strings.Join(parts, " "),
		Metadata: map[string]any{
			"restaurant_id":      summary.ID,
			"chunk_type":         "parking_location",
			"name":               title,
			"neighborhood":       summary.Neighborhood,
			"parking_difficulty": string(parking.Difficulty),
			"has_parking":        parking.Difficulty == ParkingEasy || parking.Difficulty == ParkingModerate,
			"city_center":        containsAny(neighborhood, cityCenterAreas),
			"waterfront":         containsAny(neighborhood, waterfrontAreas),
			"tourist_area":       containsAny(neighborhood, touristAreas),
		},
	}
}

func (b *Builder) featuresChunk(summary models.RestaurantSummary, detail *models.RestaurantDetail) models.Chunk {
	title := displayTitle(summary)
	services := detail.Services
	categories := summary.Categories

	parts := []string{fmt.Sprintf("%s features and specialties:", title)}

	if len(categories) > 1 {
		influences := strings.ToLower(strings.Join(firstN(categories[1:], 2), ", "))
		parts = append(parts, fmt.Sprintf("Specializes in %s with %s influences.", strings.ToLower(categories[0]), influences))
	} else if len(categories) == 1 {
		parts = append(parts, fmt.Sprintf("Authentic %s cuisine prepared with care.", strings.ToLower(categories[0])))
	}

	// Paired options suppress the singleton sentence for the same
	// feature dimension; order within a dimension is fixed.
	var features []string
	switch {
	case services.DineIn && services.OutdoorSeating:
		features = append(features, "offers both indoor dining and outdoor seating options")
	case services.OutdoorSeating:
		features = append(features, "features pleasant outdoor seating")
	case services.DineIn:
		features = append(features, "provides comfortable indoor dining")
	}
	switch {
	case services.Delivery && services.Takeaway:
		features = append(features, "convenient delivery and takeaway services available")
	case services.Delivery:
		features = append(features, "offers delivery service to your location")
	case services.Takeaway:
		features = append(features, "quick takeaway service for busy schedules")
	}
	switch {
	case services.GoodForGroups && services.AcceptsCreditCards:
		features = append(features, "perfect for group dining with easy payment options")
	case services.GoodForGroups:
		features = append(features, "accommodates large parties and celebrations")
	}
	if services.GoodForKids {
		features = append(features, "family-friendly environment welcoming children")
	}
	if services.HasWifi {
		features = append(features, "provides complimentary Wi-Fi for guests")
	}
	if services.LiveMusic {
		features = append(features, "features live music entertainment")
	}
	if services.AcceptsCreditCards {
		features = append(features, "accepts major credit cards for convenience")
	}
	if len(features) > 0 {
		parts = append(parts, fmt.Sprintf("This establishment %s.", strings.Join(firstN(features, 4), ", ")))
	}

	switch {
	case services.GoodForGroups && services.GoodForKids:
		parts = append(parts, "Creates a lively, welcoming atmosphere suitable for all ages.")
	case services.OutdoorSeating && !services.LiveMusic:
		parts = append(parts, "Offers a relaxed dining atmosphere with pleasant ambiance.")
	case services.LiveMusic:
		parts = append(parts, "Vibrant entertainment venue with energetic atmosphere.")
	}

	diningStyle := "upscale"
	if services.GoodForKids {
		diningStyle = "casual"
	}

	return models.Chunk{
		PageContent: strings.Join(parts, " "),
		Metadata: map[string]any{
			"restaurant_id":     summary.ID,
			"chunk_type":        "features",
			"name":              title,
			"cuisine_tags":      firstN(categories, 5),
			"dining_style":      diningStyle,
			"entertainment":     services.LiveMusic,
			"romantic":          services.OutdoorSeating && !services.GoodForKids,
			"business_friendly": services.HasWifi && services.AcceptsCreditCards,
		},
	}
}

func displayTitle(summary models.RestaurantSummary) string {
	if summary.Title == "" {
		return "Restaurant"
	}
	return summary.Title
}

func otherCategories(categories []string, primary string, max int) []string {
	var others []string
	for _, category := range categories {
		if category != primary {
			others = append(others, category)
		}
		if len(others) == max {
			break
		}
	}
	return others
}

func firstN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
