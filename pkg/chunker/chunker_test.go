package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chowgpt/vector-pipeline/internal/models"
)

// wordCounter is a deterministic stand-in for the tiktoken counter.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	builder, err := NewBuilder(wordCounter{}, BuilderConfig{})
	require.NoError(t, err)
	return builder
}

func testSummary() models.RestaurantSummary {
	return models.RestaurantSummary{
		ID:           "rest-001",
		Title:        "The Codfather",
		CategoryName: "Seafood restaurant",
		Categories:   []string{"Seafood restaurant", "Sushi restaurant", "Bar"},
		Neighborhood: "Camps Bay",
		Address:      "37 The Drive, Camps Bay",
		TotalScore:   4.6,
		ReviewsCount: 1250,
	}
}

func TestBuildChunks_OrderAndTypes(t *testing.T) {
	builder := newTestBuilder(t)
	detail := &models.RestaurantDetail{
		ID: "rest-001",
		Reviews: []models.Review{
			{Text: "Great fish.", Rating: 5, ReviewerName: "Anna"},
		},
	}

	chunks, err := builder.BuildChunks(testSummary(), detail)
	require.NoError(t, err)
	require.Len(t, chunks, 5)

	types := make([]string, len(chunks))
	for i, chunk := range chunks {
		types[i] = chunk.ChunkType()
		assert.Equal(t, "rest-001", chunk.RestaurantID())
		assert.NotEmpty(t, chunk.PageContent)
	}
	assert.Equal(t, []string{"overview", "operational", "parking_location", "reviews", "features"}, types)
}

func TestBuildChunks_NoReviewsStillFourChunks(t *testing.T) {
	builder := newTestBuilder(t)

	chunks, err := builder.BuildChunks(testSummary(), &models.RestaurantDetail{ID: "rest-001"})
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	for _, chunk := range chunks {
		assert.NotEqual(t, "reviews", chunk.ChunkType())
	}
}

func TestBuildChunks_NilDetail(t *testing.T) {
	builder := newTestBuilder(t)

	_, err := builder.BuildChunks(testSummary(), nil)
	assert.Error(t, err)
}

func TestOverviewChunk(t *testing.T) {
	builder := newTestBuilder(t)
	detail := &models.RestaurantDetail{Description: "Fresh catch daily."}

	chunk := builder.overviewChunk(testSummary(), detail)

	assert.Contains(t, chunk.PageContent, "The Codfather is a seafood restaurant located in Camps Bay, Cape Town.")
	assert.Contains(t, chunk.PageContent, "Restaurant description: Fresh catch daily.")
	assert.Contains(t, chunk.PageContent, "also serves sushi restaurant, bar cuisine")
	assert.Contains(t, chunk.PageContent, "Consistently recognized as an exceptional dining destination.")
	assert.Contains(t, chunk.PageContent, "Conveniently located at 37 The Drive, Camps Bay.")

	assert.Equal(t, 4.6, chunk.Metadata["rating"])
	assert.Equal(t, 1250, chunk.Metadata["review_count"])
	assert.Equal(t, "Seafood restaurant", chunk.Metadata["cuisine_primary"])
}

func TestOverviewChunk_RatingTiers(t *testing.T) {
	builder := newTestBuilder(t)

	tests := []struct {
		name     string
		rating   float64
		sentence string
		absent   bool
	}{
		{"exceptional", 4.7, "exceptional dining destination", false},
		{"well regarded", 4.2, "Well-regarded for quality and service", false},
		{"no tier", 3.8, "exceptional dining destination", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := testSummary()
			summary.TotalScore = tt.rating
			chunk := builder.overviewChunk(summary, &models.RestaurantDetail{})
			if tt.absent {
				assert.NotContains(t, chunk.PageContent, tt.sentence)
				assert.NotContains(t, chunk.PageContent, "Well-regarded")
			} else {
				assert.Contains(t, chunk.PageContent, tt.sentence)
			}
		})
	}
}

func TestOperationalChunk_OpenLate(t *testing.T) {
	builder := newTestBuilder(t)
	detail := &models.RestaurantDetail{
		OpeningHours: []models.OpeningHours{
			{Day: "Thursday", Hours: "9 AM to 5 PM"},
			{Day: "Friday", Hours: "11 AM to 11 PM"},
		},
	}

	chunk := builder.operationalChunk(testSummary(), detail)

	assert.Equal(t, true, chunk.Metadata["open_late"])
	assert.Contains(t, chunk.PageContent, "Open late for dining on Friday.")
	assert.Equal(t, true, chunk.Metadata["open_early"])
	assert.Contains(t, chunk.PageContent, "Early dining available on Thursday.")
}

func TestOperationalChunk_NoHoursDefaultsFalse(t *testing.T) {
	builder := newTestBuilder(t)

	chunk := builder.operationalChunk(testSummary(), &models.RestaurantDetail{})

	assert.Equal(t, false, chunk.Metadata["open_late"])
	assert.Equal(t, false, chunk.Metadata["open_early"])
	assert.NotContains(t, chunk.PageContent, "Operating hours vary by day")
}

func TestOperationalChunk_ServiceSentences(t *testing.T) {
	builder := newTestBuilder(t)
	detail := &models.RestaurantDetail{
		Services: models.ServiceOptions{
			DineIn:               true,
			Delivery:             true,
			WheelchairAccessible: true,
			AcceptsCreditCards:   true,
		},
		Phone: "+27 21 555 0199",
	}

	chunk := builder.operationalChunk(testSummary(), detail)

	assert.Contains(t, chunk.PageContent, "Offers dine-in service, delivery service.")
	assert.Contains(t, chunk.PageContent, "Features include wheelchair accessible.")
	assert.Contains(t, chunk.PageContent, "Additional amenities: accepts credit cards.")
	assert.Contains(t, chunk.PageContent, "Contact available at +27 21 555 0199.")
	assert.Equal(t, true, chunk.Metadata["delivery_available"])
	assert.Equal(t, false, chunk.Metadata["takeaway_available"])
}

func TestParkingLocationChunk_DifficultContext(t *testing.T) {
	builder := newTestBuilder(t)
	detail := &models.RestaurantDetail{
		Reviews: []models.Review{
			{Text: "Lovely spot.", Rating: 5, ReviewContext: map[string]string{"Parking space": "Difficult to find a spot"}},
		},
	}

	chunk := builder.parkingLocationChunk(testSummary(), detail)

	assert.Equal(t, "difficult", chunk.Metadata["parking_difficulty"])
	assert.Equal(t, false, chunk.Metadata["has_parking"])
	assert.Contains(t, chunk.PageContent, "Parking can be challenging to find.")
}

func TestParkingLocationChunk_NeighborhoodMetadata(t *testing.T) {
	builder := newTestBuilder(t)

	summary := testSummary()
	summary.Neighborhood = "V&A Waterfront"
	chunk := builder.parkingLocationChunk(summary, &models.RestaurantDetail{})

	assert.Equal(t, true, chunk.Metadata["waterfront"])
	assert.Equal(t, true, chunk.Metadata["tourist_area"])
	assert.Equal(t, false, chunk.Metadata["city_center"])
	assert.Contains(t, chunk.PageContent, "scenic waterfront location")
	assert.Contains(t, chunk.PageContent, "Parking information not specified.")
}

func TestFeaturesChunk_PairSuppressesSingleton(t *testing.T) {
	builder := newTestBuilder(t)
	detail := &models.RestaurantDetail{
		Services: models.ServiceOptions{
			DineIn:         true,
			OutdoorSeating: true,
			Delivery:       true,
			Takeaway:       true,
		},
	}

	chunk := builder.featuresChunk(testSummary(), detail)

	assert.Contains(t, chunk.PageContent, "offers both indoor dining and outdoor seating options")
	assert.NotContains(t, chunk.PageContent, "features pleasant outdoor seating")
	assert.Contains(t, chunk.PageContent, "convenient delivery and takeaway services available")
	assert.NotContains(t, chunk.PageContent, "offers delivery service to your location")
}

func TestFeaturesChunk_AtmospherePriority(t *testing.T) {
	builder := newTestBuilder(t)

	tests := []struct {
		name     string
		services models.ServiceOptions
		sentence string
	}{
		{
			"groups and kids wins",
			models.ServiceOptions{GoodForGroups: true, GoodForKids: true, LiveMusic: true},
			"Creates a lively, welcoming atmosphere suitable for all ages.",
		},
		{
			"outdoor without music",
			models.ServiceOptions{OutdoorSeating: true},
			"Offers a relaxed dining atmosphere with pleasant ambiance.",
		},
		{
			"live music",
			models.ServiceOptions{LiveMusic: true},
			"Vibrant entertainment venue with energetic atmosphere.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := builder.featuresChunk(testSummary(), &models.RestaurantDetail{Services: tt.services})
			assert.Contains(t, chunk.PageContent, tt.sentence)
		})
	}
}

func TestFeaturesChunk_Metadata(t *testing.T) {
	builder := newTestBuilder(t)
	detail := &models.RestaurantDetail{
		Services: models.ServiceOptions{
			OutdoorSeating:     true,
			HasWifi:            true,
			AcceptsCreditCards: true,
		},
	}

	chunk := builder.featuresChunk(testSummary(), detail)

	assert.Equal(t, "upscale", chunk.Metadata["dining_style"])
	assert.Equal(t, true, chunk.Metadata["romantic"])
	assert.Equal(t, true, chunk.Metadata["business_friendly"])
	assert.Equal(t, false, chunk.Metadata["entertainment"])
}
