package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// columnSampleSize bounds how many records are scanned to derive the
// header; scraped records share their shape, so a sample is enough.
const columnSampleSize = 100

// scalarFields maps source JSON keys to their CSV column names.
var scalarFields = map[string]string{
	"placeId":                 "place_id",
	"title":                   "title",
	"subTitle":                "subtitle",
	"description":             "description",
	"price":                   "price",
	"categoryName":            "category_name",
	"address":                 "address",
	"neighborhood":            "neighborhood",
	"street":                  "street",
	"city":                    "city",
	"postalCode":              "postal_code",
	"state":                   "state",
	"countryCode":             "country_code",
	"website":                 "website",
	"phone":                   "phone",
	"phoneUnformatted":        "phone_unformatted",
	"totalScore":              "total_score",
	"permanentlyClosed":       "permanently_closed",
	"temporarilyClosed":       "temporarily_closed",
	"claimThisBusiness":       "claim_this_business",
	"fid":                     "fid",
	"cid":                     "cid",
	"plusCode":                "plus_code",
	"reviewsCount":            "reviews_count",
	"imagesCount":             "images_count",
	"popularTimesLiveText":    "popular_times_live_text",
	"popularTimesLivePercent": "popular_times_live_percent",
	"scrapedAt":               "scraped_at",
	"reserveTableUrl":         "reserve_table_url",
	"googleFoodUrl":           "google_food_url",
	"url":                     "url",
	"searchString":            "search_string",
	"language":                "language",
	"isAdvertisement":         "is_advertisement",
	"imageUrl":                "image_url",
	"kgmid":                   "kgmid",
}

// starColumns maps reviewsDistribution keys to CSV columns; absent
// distributions still emit zero counts.
var starColumns = map[string]string{
	"oneStar":   "reviews_one_star",
	"twoStar":   "reviews_two_star",
	"threeStar": "reviews_three_star",
	"fourStar":  "reviews_four_star",
	"fiveStar":  "reviews_five_star",
}

// additionalInfoSections maps additionalInfo section names to their
// column prefixes.
var additionalInfoSections = map[string]string{
	"Service options": "service_",
	"Highlights":      "highlight_",
	"Popular for":     "popular_for_",
	"Accessibility":   "accessibility_",
	"Atmosphere":      "atmosphere_",
	"Payments":        "payment_",
}

// complexFields are serialized whole as embedded JSON text in a
// dedicated <field>_json column when present and non-empty.
var complexFields = []string{
	"popularTimesHistogram", "additionalOpeningHours", "peopleAlsoSearch",
	"placesTags", "reviewsTags", "questionsAndAnswers", "webResults",
	"orderBy", "restaurantData", "imageUrls", "reviews",
}

// FlattenRestaurant converts one raw restaurant record into a flat
// column -> value map suitable for a CSV row.
func FlattenRestaurant(restaurant map[string]any) map[string]any {
	flattened := make(map[string]any)

	for key, column := range scalarFields {
		flattened[column] = restaurant[key]
	}

	if location, ok := restaurant["location"].(map[string]any); ok {
		flattened["latitude"] = location["lat"]
		flattened["longitude"] = location["lng"]
	} else {
		flattened["latitude"] = nil
		flattened["longitude"] = nil
	}

	distribution, _ := restaurant["reviewsDistribution"].(map[string]any)
	for key, column := range starColumns {
		value := any(0)
		if distribution != nil {
			if count, ok := distribution[key]; ok {
				value = count
			}
		}
		flattened[column] = value
	}

	flattened["categories"] = joinList(restaurant["categories"])
	flattened["image_categories"] = joinList(restaurant["imageCategories"])

	flattened["opening_hours"] = flattenOpeningHours(restaurant["openingHours"])

	if info, ok := restaurant["additionalInfo"].(map[string]any); ok {
		for section, prefix := range additionalInfoSections {
			flattenSection(flattened, info[section], prefix)
		}
	}

	for _, field := range complexFields {
		value, ok := restaurant[field]
		if !ok || isEmptyValue(value) {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		flattened[strings.ToLower(field)+"_json"] = string(encoded)
	}

	return flattened
}

// flattenOpeningHours reduces the [{day, hours}] list to a day -> hours
// JSON object stored as text.
func flattenOpeningHours(value any) any {
	entries, ok := value.([]any)
	if !ok || len(entries) == 0 {
		return nil
	}

	hours := make(map[string]string)
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		day, dayOK := item["day"].(string)
		text, hoursOK := item["hours"].(string)
		if dayOK && hoursOK {
			hours[day] = text
		}
	}
	if len(hours) == 0 {
		return nil
	}

	encoded, err := json.Marshal(hours)
	if err != nil {
		return nil
	}
	return string(encoded)
}

// flattenSection expands a list of single-key option maps into prefixed
// columns with normalized names.
func flattenSection(flattened map[string]any, section any, prefix string) {
	entries, ok := section.([]any)
	if !ok {
		return
	}
	for _, entry := range entries {
		option, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range option {
			flattened[prefix+normalizeKey(key)] = value
		}
	}
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

func joinList(value any) any {
	items, ok := value.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ", ")
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// DeriveColumns returns the sorted union of columns over the leading
// sample of records.
func DeriveColumns(records []map[string]any) []string {
	sample := records
	if len(sample) > columnSampleSize {
		sample = sample[:columnSampleSize]
	}

	seen := make(map[string]struct{})
	for _, record := range sample {
		for column := range FlattenRestaurant(record) {
			seen[column] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for column := range seen {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// ConvertJSONToCSV reads a restaurant JSON array and writes one CSV row
// per restaurant under the derived header.
func ConvertJSONToCSV(inputPath, outputPath string) (int, []string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, nil, fmt.Errorf("could not read %s: %w", inputPath, err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, nil, fmt.Errorf("invalid JSON format in %s: %w", inputPath, err)
	}
	if len(records) == 0 {
		return 0, nil, fmt.Errorf("no restaurant data found in %s", inputPath)
	}

	columns := DeriveColumns(records)

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, nil, fmt.Errorf("could not create %s: %w", outputPath, err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	if err := writer.Write(columns); err != nil {
		return 0, nil, err
	}

	row := make([]string, len(columns))
	for _, record := range records {
		flattened := FlattenRestaurant(record)
		for i, column := range columns {
			row[i] = formatCell(flattened[column])
		}
		if err := writer.Write(row); err != nil {
			return 0, nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, nil, err
	}
	return len(records), columns, nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
