package item

import (
	"fmt"
	"strings"
	"time"
)

// MaxRating is the upper bound of an average rating.
const MaxRating = 5.0

// ReviewStats is the review aggregate a rating can be derived from.
type ReviewStats struct {
	Count int
	Total float64
}

// Media holds an item's media references.
type Media struct {
	PrimaryRef string   // stored reference resolved by the media resolver
	Gallery    []string // ordered gallery references
	PlainURL   string   // legacy plain URL, used when resolution fails
}

// Attributes are the mutable-by-write-path fields of a catalog item.
type Attributes struct {
	Name        string
	Description string
	Brand       string
	Category    string
	BasePrice   float64
	Stock       int
	Forms       []string
	Potencies   []string
	SymptomTags []string

	// Rating pair, authoritative when HasRating is set.
	HasRating     bool
	RatingCount   int
	AverageRating float64
	// Reviews is consulted when the rating pair is not pre-populated.
	Reviews *ReviewStats

	Media     Media
	CreatedAt time.Time
	// SearchText is the concatenated field fed to the text index. Derived when empty.
	SearchText string
}

// Item is a catalog item (immutable value object for the duration of a query).
type Item struct {
	id    string
	attrs Attributes
}

// New validates and creates an Item.
func New(id string, attrs Attributes) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, fmt.Errorf("item ID is required")
	}
	if strings.TrimSpace(attrs.Name) == "" {
		return Item{}, fmt.Errorf("item %q: name is required", id)
	}
	if attrs.BasePrice < 0 {
		return Item{}, fmt.Errorf("item %q: base price must be non-negative", id)
	}
	if attrs.Stock < 0 {
		return Item{}, fmt.Errorf("item %q: stock must be non-negative", id)
	}
	if attrs.HasRating {
		if attrs.RatingCount < 0 {
			return Item{}, fmt.Errorf("item %q: rating count must be non-negative", id)
		}
		if attrs.AverageRating < 0 || attrs.AverageRating > MaxRating {
			return Item{}, fmt.Errorf("item %q: average rating must be between 0 and %g", id, MaxRating)
		}
	}
	if attrs.Reviews != nil && attrs.Reviews.Count < 0 {
		return Item{}, fmt.Errorf("item %q: review count must be non-negative", id)
	}
	return Reconstruct(id, attrs), nil
}

// Reconstruct creates an Item without validation (storage hydration).
func Reconstruct(id string, attrs Attributes) Item {
	attrs.Forms = cloneStrings(attrs.Forms)
	attrs.Potencies = cloneStrings(attrs.Potencies)
	attrs.SymptomTags = cloneStrings(attrs.SymptomTags)
	attrs.Media.Gallery = cloneStrings(attrs.Media.Gallery)
	if attrs.Reviews != nil {
		r := *attrs.Reviews
		attrs.Reviews = &r
	}
	return Item{id: id, attrs: attrs}
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// Name returns the display name.
func (i *Item) Name() string { return i.attrs.Name }

// Description returns the long description.
func (i *Item) Description() string { return i.attrs.Description }

// Brand returns the brand, empty when absent.
func (i *Item) Brand() string { return i.attrs.Brand }

// Category returns the category, empty when absent.
func (i *Item) Category() string { return i.attrs.Category }

// BasePrice returns the list price.
func (i *Item) BasePrice() float64 { return i.attrs.BasePrice }

// Stock returns the units on hand.
func (i *Item) Stock() int { return i.attrs.Stock }

// Forms returns the dosage forms.
func (i *Item) Forms() []string { return i.attrs.Forms }

// Potencies returns the potencies.
func (i *Item) Potencies() []string { return i.attrs.Potencies }

// SymptomTags returns the symptom tags.
func (i *Item) SymptomTags() []string { return i.attrs.SymptomTags }

// Media returns the media references.
func (i *Item) Media() Media { return i.attrs.Media }

// CreatedAt returns the creation time.
func (i *Item) CreatedAt() time.Time { return i.attrs.CreatedAt }

// Attributes returns a copy of the item attributes.
func (i *Item) Attributes() Attributes {
	return Reconstruct(i.id, i.attrs).attrs
}

// RatingCount returns the number of ratings from whichever source is present.
func (i *Item) RatingCount() int {
	if i.attrs.HasRating {
		return i.attrs.RatingCount
	}
	if i.attrs.Reviews != nil {
		return i.attrs.Reviews.Count
	}
	return 0
}

// AverageRating returns the average rating; 0 when there are no ratings.
func (i *Item) AverageRating() float64 {
	if i.attrs.HasRating {
		if i.attrs.RatingCount == 0 {
			return 0
		}
		return i.attrs.AverageRating
	}
	r := i.attrs.Reviews
	if r == nil || r.Count == 0 {
		return 0
	}
	avg := r.Total / float64(r.Count)
	return min(max(avg, 0), MaxRating)
}

// SearchText returns the text-index field, deriving it when not stored.
func (i *Item) SearchText() string {
	if i.attrs.SearchText != "" {
		return i.attrs.SearchText
	}
	return BuildSearchText(i.attrs)
}

// BuildSearchText concatenates the fields covered by the free-text index.
func BuildSearchText(a Attributes) string {
	parts := []string{a.Name, a.Brand, a.Category, a.Description}
	parts = append(parts, a.SymptomTags...)
	parts = append(parts, a.Forms...)
	parts = append(parts, a.Potencies...)
	return joinNonEmpty(parts, " ")
}

func joinNonEmpty(parts []string, sep string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
