package catalog

import (
	"time"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/filter"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
)

// Sort is a requested result order.
type Sort string

// Sort constants. SortDefault lists newest first, or best rated first when
// the query is materialized.
const (
	SortDefault         Sort = ""
	SortRelevance       Sort = Sort(sortspec.Relevance)
	SortPriceAsc        Sort = Sort(sortspec.PriceAsc)
	SortPriceDesc       Sort = Sort(sortspec.PriceDesc)
	SortNameAsc         Sort = Sort(sortspec.NameAsc)
	SortNameDesc        Sort = Sort(sortspec.NameDesc)
	SortRatingDesc      Sort = Sort(sortspec.RatingDesc)
	SortRatingAsc       Sort = Sort(sortspec.RatingAsc)
	SortReviewCountDesc Sort = Sort(sortspec.ReviewCountDesc)
	SortNewest          Sort = Sort(sortspec.Newest)
)

// Filter narrows a catalog query. Zero fields are unconstrained.
type Filter struct {
	Brand       string // legacy single brand, merged into Brands
	Brands      []string
	Category    string // "Cosmetics" and "Personal Care" match each other
	MinPrice    *float64
	MaxPrice    *float64
	Forms       []string // any overlap matches
	Potencies   []string // any overlap matches
	SymptomTags []string // any overlap matches
	InStockOnly bool
}

// BrowseRequest is one page of a browse.
type BrowseRequest struct {
	Filter   Filter
	Sort     Sort
	Cursor   string // NextCursor of the previous page, "" for the first
	PageSize int
	Query    string // optional free text
}

// Page is one page of results.
type Page struct {
	Items      []Item
	Done       bool
	NextCursor string
}

// Item is a catalog item.
type Item struct {
	ID          string // minted from name, brand and category when empty on Put
	Name        string
	Description string
	Brand       string
	Category    string
	Price       float64
	Stock       int
	Forms       []string
	Potencies   []string
	SymptomTags []string
	Rating      float64 // average rating, 0 to 5
	RatingCount int
	ImageRef    string   // stored media reference
	Images      []string // gallery references
	ImageURL    string   // resolved on read; used as the fallback URL on Put
	CreatedAt   time.Time
}

func (f *Filter) toDomain(priceCeiling float64) (filter.Set, error) {
	return filter.New(filter.Params{
		Brand:       f.Brand,
		Brands:      f.Brands,
		Category:    f.Category,
		MinPrice:    f.MinPrice,
		MaxPrice:    f.MaxPrice,
		Forms:       f.Forms,
		Potencies:   f.Potencies,
		SymptomTags: f.SymptomTags,
		InStockOnly: f.InStockOnly,
	}, priceCeiling)
}

func (it *Item) attributes() item.Attributes {
	return item.Attributes{
		Name:          it.Name,
		Description:   it.Description,
		Brand:         it.Brand,
		Category:      it.Category,
		BasePrice:     it.Price,
		Stock:         it.Stock,
		Forms:         it.Forms,
		Potencies:     it.Potencies,
		SymptomTags:   it.SymptomTags,
		HasRating:     it.RatingCount > 0 || it.Rating > 0,
		RatingCount:   it.RatingCount,
		AverageRating: it.Rating,
		Media: item.Media{
			PrimaryRef: it.ImageRef,
			Gallery:    it.Images,
			PlainURL:   it.ImageURL,
		},
		CreatedAt: it.CreatedAt,
	}
}

func itemFromDomain(e *item.Enriched) Item {
	m := e.Media()
	return Item{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.Description(),
		Brand:       e.Brand(),
		Category:    e.Category(),
		Price:       e.BasePrice(),
		Stock:       e.Stock(),
		Forms:       e.Forms(),
		Potencies:   e.Potencies(),
		SymptomTags: e.SymptomTags(),
		Rating:      e.AverageRating(),
		RatingCount: e.RatingCount(),
		ImageRef:    m.PrimaryRef,
		Images:      m.Gallery,
		ImageURL:    e.ImageURL(),
		CreatedAt:   e.CreatedAt(),
	}
}

func itemsFromDomain(items []item.Enriched) []Item {
	out := make([]Item, len(items))
	for i := range items {
		out[i] = itemFromDomain(&items[i])
	}
	return out
}
