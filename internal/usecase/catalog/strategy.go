package catalog

import (
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/filter"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/scan"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
)

// Kind is a retrieval strategy.
type Kind int

const (
	// KindIndexScan pages through one index in its native order with an index cursor.
	KindIndexScan Kind = iota
	// KindMaterialize reads a superset, filters and sorts it in memory, and pages by offset.
	KindMaterialize
)

func (k Kind) String() string {
	if k == KindMaterialize {
		return "materialize"
	}
	return "index_scan"
}

// Plan is the outcome of strategy selection.
type Plan struct {
	Kind Kind
	// Index is the primary index: the scanned one, or the superset source when materializing.
	Index sortspec.Index
	// Scan is the store read. For KindMaterialize it follows collection order.
	Scan scan.Scan
}

// Select picks the retrieval strategy for a request. First matching rule wins:
//  1. overlap filters, a text query, several brands, or an indexed sort with a
//     brand or category filter: materialize
//  2. an indexed non-default sort: scan that sort's index
//  3. a single brand: scan the brand index, newest first
//  4. a category: scan the category index, newest first
//  5. otherwise scan the collection, newest first
//
// Price range and in-stock constraints ride along as store-side predicates.
func Select(f filter.Set, s sortspec.Sort, hasQuery bool) Plan {
	brands := f.Brands()
	primary := len(brands) > 0 || f.Category() != ""
	sortIdx, sortDesc, indexed := s.Index()
	explicit := indexed && !s.IsDefault()

	if f.HasArrayFilters() || hasQuery || len(brands) > 1 || (explicit && primary) {
		p := Plan{Kind: KindMaterialize, Index: sortspec.IndexCreation, Scan: pushdown(f, scan.Collection())}
		switch {
		case len(brands) > 0:
			p.Index = sortspec.IndexBrand
		case f.Category() != "":
			p.Index = sortspec.IndexCategory
		}
		return p
	}

	switch {
	case explicit:
		return Plan{Kind: KindIndexScan, Index: sortIdx, Scan: pushdown(f, scan.Scan{Order: sortIdx, Desc: sortDesc})}
	case len(brands) == 1:
		return Plan{Kind: KindIndexScan, Index: sortspec.IndexBrand, Scan: pushdown(f, scan.Collection())}
	case f.Category() != "":
		return Plan{Kind: KindIndexScan, Index: sortspec.IndexCategory, Scan: pushdown(f, scan.Collection())}
	default:
		return Plan{Kind: KindIndexScan, Index: sortspec.IndexCreation, Scan: pushdown(f, scan.Collection())}
	}
}

// pushdown narrows sc by every constraint the store can evaluate.
func pushdown(f filter.Set, sc scan.Scan) scan.Scan {
	sc.Brands = f.Brands()
	sc.Categories = f.Categories()
	sc.MinPrice = f.MinPrice()
	sc.MaxPrice = f.MaxPrice()
	sc.InStockOnly = f.InStockOnly()
	return sc
}
