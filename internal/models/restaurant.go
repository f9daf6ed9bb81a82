package models

// RestaurantSummary is one row of the paginated list endpoint. The id is
// the stable key used for detail lookups and chunk metadata.
type RestaurantSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	CategoryName string   `json:"categoryName"`
	Categories   []string `json:"categories"`
	Neighborhood string   `json:"neighborhood"`
	Address      string   `json:"address"`
	TotalScore   float64  `json:"totalScore"`
	ReviewsCount int      `json:"reviewsCount"`
	Description  string   `json:"description"`
	Price        string   `json:"price"`
}

// OpeningHours is one day's free-text hours entry, e.g.
// {Day: "Friday", Hours: "11 AM to 11 PM"}. Hours are never parsed
// numerically, only scanned for known time tokens.
type OpeningHours struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// ServiceOptions are the boolean feature flags reported by the detail
// endpoint.
type ServiceOptions struct {
	DineIn               bool `json:"dineIn"`
	Takeaway             bool `json:"takeaway"`
	Delivery             bool `json:"delivery"`
	Reservations         bool `json:"reservations"`
	WheelchairAccessible bool `json:"wheelchairAccessible"`
	GoodForKids          bool `json:"goodForKids"`
	GoodForGroups        bool `json:"goodForGroups"`
	AcceptsCreditCards   bool `json:"acceptsCreditCards"`
	HasWifi              bool `json:"hasWifi"`
	OutdoorSeating       bool `json:"outdoorSeating"`
	LiveMusic            bool `json:"liveMusic"`
	HasParking           bool `json:"hasParking"`
}

// Review is a single customer review with its optional structured
// context fields ("Parking space", "Price per person", ...).
type Review struct {
	Text          string            `json:"text"`
	Rating        float64           `json:"rating"`
	ReviewerName  string            `json:"reviewerName"`
	ReviewContext map[string]string `json:"reviewContext"`
}

// RestaurantDetail is the per-restaurant detail payload, fetched lazily
// one call per restaurant. A failed fetch means the whole restaurant is
// skipped; partial detail is never used.
type RestaurantDetail struct {
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	OpeningHours []OpeningHours `json:"openingHours"`
	Services     ServiceOptions `json:"serviceOptions"`
	Phone        string         `json:"phone"`
	Website      string         `json:"website"`
	Reviews      []Review       `json:"reviews"`
	AveragePrice string         `json:"averagePrice"`
}

// Chunk is one unit of natural-language text plus typed filter metadata,
// ready for embedding. Metadata always carries restaurant_id and
// chunk_type; a chunk has no identity beyond that pair.
type Chunk struct {
	PageContent string
	Metadata    map[string]any
}

// RestaurantID returns the restaurant_id metadata field, or "" if unset.
func (c Chunk) RestaurantID() string {
	id, _ := c.Metadata["restaurant_id"].(string)
	return id
}

// ChunkType returns the chunk_type metadata field, or "" if unset.
func (c Chunk) ChunkType() string {
	t, _ := c.Metadata["chunk_type"].(string)
	return t
}
