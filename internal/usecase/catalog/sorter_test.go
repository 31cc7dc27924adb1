package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
)

func TestSortItems(t *testing.T) {
	tests := []struct {
		name     string
		sort     sortspec.Sort
		hasQuery bool
		want     []string
	}{
		// Input order: arnica bella cream shampoo tonic drops.
		{"default is rating desc", sortspec.None, false, []string{"arnica", "bella", "tonic", "shampoo", "cream", "drops"}},
		{"query keeps upstream order", sortspec.None, true, []string{"arnica", "bella", "cream", "shampoo", "tonic", "drops"}},
		{"relevance keeps order", sortspec.Relevance, false, []string{"arnica", "bella", "cream", "shampoo", "tonic", "drops"}},
		{"price asc", sortspec.PriceAsc, false, []string{"drops", "bella", "arnica", "tonic", "cream", "shampoo"}},
		{"price asc with query", sortspec.PriceAsc, true, []string{"drops", "bella", "arnica", "tonic", "cream", "shampoo"}},
		{"name asc", sortspec.NameAsc, false, []string{"tonic", "arnica", "bella", "cream", "shampoo", "drops"}},
		{"rating asc ties keep order", sortspec.RatingAsc, false, []string{"drops", "cream", "shampoo", "tonic", "arnica", "bella"}},
		{"review count desc", sortspec.ReviewCountDesc, false, []string{"tonic", "arnica", "shampoo", "bella", "cream", "drops"}},
		{"newest", sortspec.Newest, false, []string{"drops", "tonic", "shampoo", "cream", "bella", "arnica"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := catalogFixture(t)
			sortItems(items, tt.sort, tt.hasQuery)
			if diff := cmp.Diff(tt.want, itemIDs(items)); diff != "" {
				t.Errorf("order (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortItems_StableAcrossCalls(t *testing.T) {
	var items []item.Item
	for i, id := range seq("tie-", 8) {
		items = append(items, mk(t, id, i, item.Attributes{HasRating: true, RatingCount: 1, AverageRating: 4}))
	}
	want := itemIDs(items)
	for range 5 {
		sortItems(items, sortspec.RatingDesc, false)
		if diff := cmp.Diff(want, itemIDs(items)); diff != "" {
			t.Fatalf("equal ratings reordered (-want +got):\n%s", diff)
		}
	}
}
