package db

// Predicate is a single FT.SEARCH pre-filter clause. Predicates in a Query are ANDed.
type Predicate struct {
	Field string

	// TAG: match any of Tags.
	Tags []string

	// NUMERIC: inclusive bounds unless the matching Exclusive flag is set; nil is open.
	Min          *float64
	Max          *float64
	MinExclusive bool
}

// IsTag reports whether p is a TAG clause.
func (p Predicate) IsTag() bool { return len(p.Tags) > 0 }

// TagAnyOf matches documents whose TAG field holds any of values.
func TagAnyOf(field string, values ...string) Predicate {
	return Predicate{Field: field, Tags: values}
}

// NumericRange matches documents with min <= field <= max.
func NumericRange(field string, minVal, maxVal *float64) Predicate {
	return Predicate{Field: field, Min: minVal, Max: maxVal}
}

// NumericAbove matches documents with field > minVal.
func NumericAbove(field string, minVal float64) Predicate {
	return Predicate{Field: field, Min: &minVal, MinExclusive: true}
}

// Query is the input for FT.SEARCH list, text and count operations.
type Query struct {
	IndexName string
	Filters   []Predicate

	// Text is an optional free-text query matched against TextField (AND of terms).
	Text      string
	TextField string

	// SortBy orders results by a SORTABLE field; empty keeps relevance order.
	SortBy   string
	SortDesc bool
	// ThenBy breaks SortBy ties by a second SORTABLE field. Ignored without SortBy.
	ThenBy   string
	ThenDesc bool

	Offset int
	Limit  int

	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	// Total is the match count for FT.SEARCH; two-key sorts report only a lower bound.
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
