package catalog

import (
	"github.com/abhichtrvd/1goli-sub001/internal/db"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
)

func itemPrefix(prefix string) string { return prefix + "item:" }

func itemKey(prefix, id string) string { return itemPrefix(prefix) + id }

func indexName(prefix string) string { return prefix + "items:idx" }

// buildIndex declares the catalog index: TAG filters, sortable numerics, the
// name sort key and the free-text field. Stopwords stay indexed so every
// query term the substring fallback would match can also hit the index.
func buildIndex(prefix string) (*db.IndexDefinition, error) {
	return db.NewIndex(indexName(prefix)).
		Prefix(itemPrefix(prefix)).
		NoStopwords().
		Tags(fieldBrand, tagSeparator).
		Tags(fieldCategory, tagSeparator).
		Tags(fieldForms, tagSeparator).
		Tags(fieldPotencies, tagSeparator).
		Tags(fieldSymptomTags, tagSeparator).
		SortableNumeric(fieldPrice).
		SortableNumeric(fieldRating).
		SortableNumeric(fieldRatingCount).
		SortableNumeric(fieldCreatedAt).
		Numeric(fieldStock).
		SortKey(fieldNameSort).
		Text(fieldSearchText).
		Build()
}

// sortField maps an ordering index to its SORTABLE hash field.
func sortField(idx sortspec.Index) (string, bool) {
	switch idx {
	case sortspec.IndexCreation:
		return fieldCreatedAt, true
	case sortspec.IndexPrice:
		return fieldPrice, true
	case sortspec.IndexName:
		return fieldNameSort, true
	case sortspec.IndexRating:
		return fieldRating, true
	case sortspec.IndexRatingCount:
		return fieldRatingCount, true
	default:
		return "", false
	}
}
