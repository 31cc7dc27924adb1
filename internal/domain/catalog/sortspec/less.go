package sortspec

import (
	"strings"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
)

// Less returns the ascending comparator of idx's native order.
// Names compare case-insensitively. Brand and category order by creation time.
func Less(idx Index) func(a, b *item.Item) bool {
	switch idx {
	case IndexPrice:
		return func(a, b *item.Item) bool { return a.BasePrice() < b.BasePrice() }
	case IndexName:
		return func(a, b *item.Item) bool { return strings.ToLower(a.Name()) < strings.ToLower(b.Name()) }
	case IndexRating:
		return func(a, b *item.Item) bool { return a.AverageRating() < b.AverageRating() }
	case IndexRatingCount:
		return func(a, b *item.Item) bool { return a.RatingCount() < b.RatingCount() }
	default:
		return func(a, b *item.Item) bool { return a.CreatedAt().Before(b.CreatedAt()) }
	}
}
