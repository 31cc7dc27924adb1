package sortspec

import (
	"strings"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
)

// Sort is a requested result order.
type Sort string

// Supported sort orders.
const (
	Relevance       Sort = "relevance"
	PriceAsc        Sort = "price_asc"
	PriceDesc       Sort = "price_desc"
	NameAsc         Sort = "name_asc"
	NameDesc        Sort = "name_desc"
	RatingDesc      Sort = "rating_desc"
	RatingAsc       Sort = "rating_asc"
	ReviewCountDesc Sort = "review_count_desc"
	Newest          Sort = "newest"
)

// None is the zero Sort: nothing requested.
const None Sort = ""

// Default is the index order used when no sort is requested.
const Default = Newest

// Index names a pre-declared single-field index.
type Index string

// Pre-declared indexes.
const (
	IndexCreation    Index = "created_at"
	IndexPrice       Index = "price"
	IndexName        Index = "name"
	IndexRating      Index = "rating"
	IndexRatingCount Index = "rating_count"
	IndexBrand       Index = "brand"
	IndexCategory    Index = "category"
)

type order struct {
	index Index
	desc  bool
}

var orders = map[Sort]order{
	PriceAsc:        {IndexPrice, false},
	PriceDesc:       {IndexPrice, true},
	NameAsc:         {IndexName, false},
	NameDesc:        {IndexName, true},
	RatingDesc:      {IndexRating, true},
	RatingAsc:       {IndexRating, false},
	ReviewCountDesc: {IndexRatingCount, true},
	Newest:          {IndexCreation, true},
}

// Parse converts a raw sort value. Empty input yields None.
func Parse(raw string) (Sort, error) {
	s := Sort(strings.ToLower(strings.TrimSpace(raw)))
	if s == None {
		return None, nil
	}
	if s == Relevance {
		return s, nil
	}
	if _, ok := orders[s]; !ok {
		return "", domain.NewFieldError("sort", "unsupported value "+raw)
	}
	return s, nil
}

// Values lists every accepted sort.
func Values() []Sort {
	return []Sort{Relevance, PriceAsc, PriceDesc, NameAsc, NameDesc, RatingDesc, RatingAsc, ReviewCountDesc, Newest}
}

// IsDefault reports whether s resolves to the default creation order.
func (s Sort) IsDefault() bool { return s == None || s == Default }

// IsRequested reports whether the caller asked for any sort.
func (s Sort) IsRequested() bool { return s != None }

// IsRelevance reports whether s trusts upstream order.
func (s Sort) IsRelevance() bool { return s == Relevance }

// Index returns the index whose native order serves s, and its direction.
// ok is false for relevance.
func (s Sort) Index() (idx Index, desc, ok bool) {
	if s == None {
		s = Default
	}
	o, ok := orders[s]
	return o.index, o.desc, ok
}

func (s Sort) String() string { return string(s) }
