package catalog

import (
	"sort"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
)

// sortItems orders items in place by s. The sort is stable.
// Relevance keeps upstream order. With neither sort nor query, items are
// ordered by average rating, highest first.
func sortItems(items []item.Item, s sortspec.Sort, hasQuery bool) {
	if s.IsRelevance() {
		return
	}
	if !s.IsRequested() {
		if hasQuery {
			return
		}
		s = sortspec.RatingDesc
	}
	idx, desc, ok := s.Index()
	if !ok {
		return
	}
	less := sortspec.Less(idx)
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(&items[j], &items[i])
		}
		return less(&items[i], &items[j])
	})
}
