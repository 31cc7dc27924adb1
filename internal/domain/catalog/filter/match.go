package filter

import "github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"

// Matches reports whether it satisfies every active filter. Pure; never fails on
// missing optional item fields.
func (s Set) Matches(it *item.Item) bool {
	if len(s.brands) > 0 && !contains(s.brands, it.Brand()) {
		return false
	}
	if s.category != "" && !contains(s.Categories(), it.Category()) {
		return false
	}
	if !s.MatchesPrice(it.BasePrice()) {
		return false
	}
	if len(s.forms) > 0 && !overlaps(it.Forms(), s.forms) {
		return false
	}
	if len(s.potencies) > 0 && !overlaps(it.Potencies(), s.potencies) {
		return false
	}
	if len(s.symptomTags) > 0 && !overlaps(it.SymptomTags(), s.symptomTags) {
		return false
	}
	if s.inStockOnly && it.Stock() <= 0 {
		return false
	}
	return true
}

// MatchesPrice applies the price range alone.
func (s Set) MatchesPrice(price float64) bool {
	if price < s.minPrice {
		return false
	}
	return s.maxPrice == nil || price <= *s.maxPrice
}

func contains(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// overlaps reports a non-empty intersection; an empty item set never overlaps.
func overlaps(have, want []string) bool {
	for _, h := range have {
		if contains(want, h) {
			return true
		}
	}
	return false
}
