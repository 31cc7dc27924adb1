package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
)

// Hash field names of a stored catalog item.
const (
	fieldID          = "id"
	fieldName        = "name"
	fieldNameSort    = "name_sort"
	fieldDescription = "description"
	fieldBrand       = "brand"
	fieldCategory    = "category"
	fieldPrice       = "price"
	fieldStock       = "stock"
	fieldForms       = "forms"
	fieldPotencies   = "potencies"
	fieldSymptomTags = "symptom_tags"
	fieldRating      = "rating"
	fieldRatingCount = "rating_count"
	fieldReviewCount = "review_count"
	fieldReviewTotal = "review_total"
	fieldImageRef    = "image_ref"
	fieldImages      = "images"
	fieldImageURL    = "image_url"
	fieldCreatedAt   = "created_at"
	fieldSearchText  = "search_text"
)

// tagSeparator joins multi-valued TAG fields.
const tagSeparator = "|"

// buildHashFields converts a catalog item into a flat map for HSET.
// The rating pair is always written so the index can sort on it.
func buildHashFields(it *item.Item) map[string]string {
	m := map[string]string{
		fieldID:          it.ID(),
		fieldName:        it.Name(),
		fieldNameSort:    strings.ToLower(it.Name()),
		fieldPrice:       formatFloat(it.BasePrice()),
		fieldStock:       strconv.Itoa(it.Stock()),
		fieldRating:      formatFloat(it.AverageRating()),
		fieldRatingCount: strconv.Itoa(it.RatingCount()),
		fieldCreatedAt:   strconv.FormatInt(it.CreatedAt().UnixMilli(), 10),
		fieldSearchText:  it.SearchText(),
	}
	setIf(m, fieldDescription, it.Description())
	setIf(m, fieldBrand, it.Brand())
	setIf(m, fieldCategory, it.Category())
	setIf(m, fieldForms, strings.Join(it.Forms(), tagSeparator))
	setIf(m, fieldPotencies, strings.Join(it.Potencies(), tagSeparator))
	setIf(m, fieldSymptomTags, strings.Join(it.SymptomTags(), tagSeparator))

	media := it.Media()
	setIf(m, fieldImageRef, media.PrimaryRef)
	setIf(m, fieldImages, strings.Join(media.Gallery, tagSeparator))
	setIf(m, fieldImageURL, media.PlainURL)

	if r := it.Attributes().Reviews; r != nil {
		m[fieldReviewCount] = strconv.Itoa(r.Count)
		m[fieldReviewTotal] = formatFloat(r.Total)
	}
	return m
}

// parseHashFields converts a flat hash map back into a catalog item.
// Malformed numerics degrade to zero values.
func parseHashFields(id string, m map[string]string) item.Item {
	attrs := item.Attributes{
		Name:        m[fieldName],
		Description: m[fieldDescription],
		Brand:       m[fieldBrand],
		Category:    m[fieldCategory],
		BasePrice:   parseFloat(m[fieldPrice]),
		Stock:       parseInt(m[fieldStock]),
		Forms:       splitTags(m[fieldForms]),
		Potencies:   splitTags(m[fieldPotencies]),
		SymptomTags: splitTags(m[fieldSymptomTags]),
		Media: item.Media{
			PrimaryRef: m[fieldImageRef],
			Gallery:    splitTags(m[fieldImages]),
			PlainURL:   m[fieldImageURL],
		},
		SearchText: m[fieldSearchText],
	}

	if v, ok := m[fieldRatingCount]; ok {
		attrs.HasRating = true
		attrs.RatingCount = parseInt(v)
		attrs.AverageRating = parseFloat(m[fieldRating])
	}
	if v, ok := m[fieldReviewCount]; ok {
		attrs.Reviews = &item.ReviewStats{Count: parseInt(v), Total: parseFloat(m[fieldReviewTotal])}
	}
	if ms, err := strconv.ParseInt(m[fieldCreatedAt], 10, 64); err == nil {
		attrs.CreatedAt = time.UnixMilli(ms).UTC()
	}

	return item.Reconstruct(id, attrs)
}

func setIf(m map[string]string, k, v string) {
	if v != "" {
		m[k] = v
	}
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, tagSeparator)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
