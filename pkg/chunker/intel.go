package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chowgpt/vector-pipeline/internal/models"
)

// ParkingDifficulty is the coarse tag derived from review signals.
type ParkingDifficulty string

const (
	ParkingUnknown   ParkingDifficulty = "unknown"
	ParkingEasy      ParkingDifficulty = "easy"
	ParkingModerate  ParkingDifficulty = "moderate"
	ParkingDifficult ParkingDifficulty = "difficult"
)

// Classification keyword tables. Kept as data so each rule set is
// testable on its own; matching is case-insensitive substring scan and
// the first matching rule wins.
var (
	lateTokens  = []string{"10 pm", "11 pm", "12 am", "1 am"}
	earlyTokens = []string{"7 am", "8 am", "9 am"}

	waterfrontAreas = []string{"waterfront", "harbour", "sea"}
	cityCenterAreas = []string{"city", "cbd", "centre"}
	upscaleAreas    = []string{"kloof", "gardens", "tamboerskloof"}
	touristAreas    = []string{"waterfront", "camps bay", "sea point"}
	majorStreets    = []string{"long street", "kloof street", "bree street"}

	// "somewhat difficult" is checked before "difficult" so the
	// moderate tier is reachable.
	parkingContextRules = []struct {
		phrase     string
		difficulty ParkingDifficulty
		sentence   string
	}{
		{"plenty", ParkingEasy, "has plenty of parking available"},
		{"somewhat difficult", ParkingModerate, "parking is somewhat limited"},
		{"difficult", ParkingDifficult, "parking can be challenging to find"},
	}

	parkingTextRules = []struct {
		phrases  []string
		sentence string
	}{
		{[]string{"easy parking", "plenty parking"}, "visitors mention easy parking"},
		{[]string{"difficult parking", "hard to park"}, "visitors report parking challenges"},
		{[]string{"valet"}, "offers valet parking service"},
	}

	themeRules = []struct {
		keywords []string
		sentence string
	}{
		{[]string{"excellent", "amazing", "outstanding", "perfect"}, "consistently receives excellent reviews"},
		{[]string{"service", "staff", "friendly", "helpful"}, "praised for friendly service"},
		{[]string{"delicious", "tasty", "fresh", "quality"}, "food quality highly rated"},
		{[]string{"atmosphere", "ambiance", "cozy", "romantic"}, "creates a welcoming atmosphere"},
		{[]string{"value", "worth", "reasonable", "affordable"}, "offers good value for money"},
	}

	randCurrencyPattern = regexp.MustCompile(`R\s*(\d+)`)
	numberPattern       = regexp.MustCompile(`(\d+)`)
)

// ParkingIntel is the parking signal extracted from reviews.
type ParkingIntel struct {
	Description string
	Difficulty  ParkingDifficulty
}

// extractParking scans structured review context first ("Parking
// space"), then free text, then the service flag. All matched sentences
// accumulate into the description; the difficulty tag comes only from
// the structured context.
func extractParking(detail *models.RestaurantDetail) ParkingIntel {
	var mentions []string
	difficulty := ParkingUnknown

	for _, review := range detail.Reviews {
		if space, ok := review.ReviewContext["Parking space"]; ok {
			lowered := strings.ToLower(space)
			for _, rule := range parkingContextRules {
				if strings.Contains(lowered, rule.phrase) {
					mentions = append(mentions, rule.sentence)
					difficulty = rule.difficulty
					break
				}
			}
		}

		text := strings.ToLower(review.Text)
		if containsAny(text, []string{"parking", "valet", "park"}) {
			for _, rule := range parkingTextRules {
				if containsAny(text, rule.phrases) {
					mentions = append(mentions, rule.sentence)
					break
				}
			}
		}
	}

	if detail.Services.HasParking {
		mentions = append(mentions, "provides parking facilities")
	}

	description := "parking information not specified"
	if len(mentions) > 0 {
		description = strings.Join(mentions, ". ")
	}
	return ParkingIntel{Description: description, Difficulty: difficulty}
}

// classifyNeighborhood returns the descriptive sentence for the first
// matching area class, or "" when none matches.
func classifyNeighborhood(neighborhood string) string {
	switch {
	case containsAny(neighborhood, waterfrontAreas):
		return "Located in a scenic waterfront location with tourist attractions nearby."
	case containsAny(neighborhood, cityCenterAreas):
		return "Centrally located in the city center with business district access."
	case containsAny(neighborhood, upscaleAreas):
		return "Nestled in an upscale residential area with trendy dining scene."
	}
	return ""
}

// PriceIntel is the price signal gathered across the summary tier, the
// average-price field, and per-review "Price per person" context. Min
// and max keep the first successfully parsed values.
type PriceIntel struct {
	Description string
	Min         int
	Max         int
}

func extractPrice(summary models.RestaurantSummary, detail *models.RestaurantDetail) PriceIntel {
	var mentions []string
	intel := PriceIntel{}

	if summary.Price != "" {
		mentions = append(mentions, "price range "+summary.Price)
	}

	if detail.AveragePrice != "" {
		mentions = append(mentions, "typical cost "+detail.AveragePrice)
		if min, max, ok := parseAmounts(randCurrencyPattern, detail.AveragePrice, 100); ok {
			intel.Min, intel.Max = min, max
		}
	}

	for _, review := range detail.Reviews {
		perPerson, ok := review.ReviewContext["Price per person"]
		if !ok {
			continue
		}
		mentions = append(mentions, "diners report spending "+perPerson)
		if intel.Min == 0 {
			if min, max, ok := parseAmounts(numberPattern, perPerson, 50); ok {
				intel.Min, intel.Max = min, max
			}
		}
	}

	intel.Description = "pricing information varies"
	if len(mentions) > 0 {
		intel.Description = strings.Join(mentions, ". ")
	}
	return intel
}

// parseAmounts takes the first match as the minimum and the second as
// the maximum, defaulting max to min+gap when only one number appears.
func parseAmounts(pattern *regexp.Regexp, text string, gap int) (int, int, bool) {
	matches := pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, 0, false
	}
	min := atoi(matches[0][1])
	max := min + gap
	if len(matches) > 1 {
		max = atoi(matches[1][1])
	}
	return min, max, true
}

// extractThemes scans the leading reviews (rating >= 4 only) against
// the theme keyword families. Each canned sentence appears at most once
// no matter how many reviews trigger it.
func (b *Builder) extractThemes(reviews []models.Review) string {
	matched := make([]bool, len(themeRules))

	for _, review := range firstN(reviews, b.config.ThemeReviews) {
		if review.Rating < 4 {
			continue
		}
		text := strings.ToLower(review.Text)
		for i, rule := range themeRules {
			if !matched[i] && containsAny(text, rule.keywords) {
				matched[i] = true
			}
		}
	}

	var themes []string
	for i, rule := range themeRules {
		if matched[i] {
			themes = append(themes, rule.sentence)
		}
	}
	if len(themes) == 0 {
		return "popular dining destination"
	}
	return strings.Join(firstN(themes, b.config.MaxThemes), ". ")
}

// daysMatching returns the day names whose hours text contains any of
// the given time tokens, in input order.
func daysMatching(hours []models.OpeningHours, tokens []string) []string {
	var days []string
	for _, entry := range hours {
		if containsAny(strings.ToLower(entry.Hours), tokens) {
			days = append(days, entry.Day)
		}
	}
	return days
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
