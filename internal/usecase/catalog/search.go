package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/filter"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/scan"
	"github.com/abhichtrvd/1goli-sub001/internal/metrics"
)

// normalizeQuery trims and lower-cases free text.
func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// resolveSearch returns the items matching q and f. Text-index hits are authoritative
// and relevance ordered. When none of them match f, or there is no text index, a
// substring scan over source keeps every matching item containing all query tokens,
// in collection order.
func (s *Service) resolveSearch(
	ctx context.Context, q string, f filter.Set, source scan.Scan, log *zap.Logger,
) ([]item.Item, error) {
	hits, err := s.store.SearchText(ctx, q, source)
	switch {
	case err == nil:
		if matched := keepMatching(hits, f); len(matched) > 0 {
			return matched, nil
		}
	case !errors.Is(err, domain.ErrTextSearchNotSupported):
		return nil, fmt.Errorf("text search: %w", err)
	}

	metrics.SearchFallbackTotal.Inc()
	log.Warn("Text index returned no matching hits, falling back to substring scan",
		zap.String("query", q),
		zap.Bool("text_index", err == nil),
		zap.Int("unfiltered_hits", len(hits)),
	)

	all, err := s.store.Collect(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("collect for fallback search: %w", err)
	}
	tokens := strings.Fields(q)
	out := make([]item.Item, 0, len(all))
	for i := range all {
		if matchesTokens(&all[i], tokens) && f.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// keepMatching returns the items matching f, in order.
func keepMatching(items []item.Item, f filter.Set) []item.Item {
	if f.IsEmpty() {
		return items
	}
	out := make([]item.Item, 0, len(items))
	for i := range items {
		if f.Matches(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// matchesTokens reports whether every token is a substring of the item's textual fields.
func matchesTokens(it *item.Item, tokens []string) bool {
	parts := []string{it.Name(), it.Description(), it.Brand()}
	parts = append(parts, it.SymptomTags()...)
	parts = append(parts, it.Forms()...)
	parts = append(parts, it.Potencies()...)
	haystack := strings.ToLower(strings.Join(parts, " "))
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}
