// Package memcatalog is an in-process record store: pre-sorted single-field
// orders over the collection plus a bleve in-memory text index.
package memcatalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/scan"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
)

const (
	textField = "text"
	// textBatch is the number of text hits read per bleve request.
	textBatch = 500
)

type orderKey struct {
	index sortspec.Index
	desc  bool
}

// Store implements usecase/catalog.Store in memory. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	items  []item.Item
	byID   map[string]int
	orders map[orderKey][]int
	text   bleve.Index
	batch  int
	closed bool
}

var errClosed = errors.New("memcatalog: store closed")

// New creates an empty store with an in-memory text index.
func New() (*Store, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	tf := bleve.NewTextFieldMapping()
	tf.Analyzer = standard.Name
	tf.Store = false
	docMapping.AddFieldMappingsAt(textField, tf)
	im.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create text index: %w", err)
	}
	return &Store{
		byID:   make(map[string]int),
		orders: make(map[orderKey][]int),
		text:   idx,
		batch:  textBatch,
	}, nil
}

// Close releases the text index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.text.Close()
}

// Ping reports whether the store is open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Put inserts or replaces items by ID and rebuilds the orders.
func (s *Store) Put(items ...item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.text.NewBatch()
	for i := range items {
		it := items[i]
		if pos, ok := s.byID[it.ID()]; ok {
			s.items[pos] = it
		} else {
			s.byID[it.ID()] = len(s.items)
			s.items = append(s.items, it)
		}
		if err := batch.Index(it.ID(), map[string]any{textField: it.SearchText()}); err != nil {
			return fmt.Errorf("index %s: %w", it.ID(), err)
		}
	}
	if err := s.text.Batch(batch); err != nil {
		return fmt.Errorf("text index batch: %w", err)
	}
	s.rebuildOrders()
	return nil
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ScanIndex returns up to limit items of sc starting at the position in token.
func (s *Store) ScanIndex(ctx context.Context, sc scan.Scan, token string, limit int) (scan.Page[item.Item], error) {
	if limit <= 0 {
		return scan.Page[item.Item]{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	pos := 0
	if token != "" {
		var err error
		if pos, err = scan.DecodeToken(sc, token); err != nil {
			return scan.Page[item.Item]{}, err
		}
	}
	all, err := s.Collect(ctx, sc)
	if err != nil {
		return scan.Page[item.Item]{}, err
	}
	if pos > len(all) {
		pos = len(all)
	}
	end := min(pos+limit, len(all))
	page := scan.Page[item.Item]{Items: all[pos:end], Done: end >= len(all)}
	if !page.Done {
		page.Next = scan.EncodeToken(sc, end)
	}
	return page, nil
}

// Collect returns every item in the range of sc in index order.
func (s *Store) Collect(ctx context.Context, sc scan.Scan) ([]item.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderKey{sc.Order, sc.Desc}]
	if !ok {
		return nil, fmt.Errorf("%w: index %q has no native order", domain.ErrInvalidInput, sc.Order)
	}
	out := make([]item.Item, 0, len(order))
	for _, pos := range order {
		if inRange(sc, &s.items[pos]) {
			out = append(out, s.items[pos])
		}
	}
	return out, nil
}

// CountScan returns the number of items in the range of sc.
func (s *Store) CountScan(ctx context.Context, sc scan.Scan) (int, error) {
	items, err := s.Collect(ctx, sc)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// SearchText returns every item in the range of sc whose search text contains
// every analysed term of q, best match first. Equal scores keep id order.
func (s *Store) SearchText(ctx context.Context, q string, sc scan.Scan) ([]item.Item, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	mq := bleve.NewMatchQuery(q)
	mq.SetField(textField)
	mq.SetOperator(query.MatchQueryOperatorAnd)

	var out []item.Item
	for from := 0; ; from += s.batch {
		req := bleve.NewSearchRequestOptions(mq, s.batch, from, false)
		req.SortBy([]string{"-_score", "_id"})
		res, err := s.text.SearchInContext(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, domain.NewStoreError("text search", err)
		}

		s.mu.RLock()
		for _, hit := range res.Hits {
			if pos, ok := s.byID[hit.ID]; ok && inRange(sc, &s.items[pos]) {
				out = append(out, s.items[pos])
			}
		}
		s.mu.RUnlock()

		if len(res.Hits) < s.batch || uint64(from+len(res.Hits)) >= res.Total {
			return out, nil
		}
	}
}

// rebuildOrders recomputes every sorted order. Caller holds the write lock.
// Ties keep collection order (newest first, then insertion).
func (s *Store) rebuildOrders() {
	collection := make([]int, len(s.items))
	for i := range collection {
		collection[i] = i
	}
	sort.SliceStable(collection, func(a, b int) bool {
		return s.items[collection[a]].CreatedAt().After(s.items[collection[b]].CreatedAt())
	})

	indexes := []sortspec.Index{
		sortspec.IndexCreation, sortspec.IndexPrice, sortspec.IndexName,
		sortspec.IndexRating, sortspec.IndexRatingCount,
	}
	for _, idx := range indexes {
		for _, desc := range []bool{false, true} {
			order := make([]int, len(collection))
			copy(order, collection)
			less := sortspec.Less(idx)
			sort.SliceStable(order, func(a, b int) bool {
				x, y := &s.items[order[a]], &s.items[order[b]]
				if desc {
					return less(y, x)
				}
				return less(x, y)
			})
			s.orders[orderKey{idx, desc}] = order
		}
	}
}

func inRange(sc scan.Scan, it *item.Item) bool {
	if len(sc.Brands) > 0 && !contains(sc.Brands, it.Brand()) {
		return false
	}
	if len(sc.Categories) > 0 && !contains(sc.Categories, it.Category()) {
		return false
	}
	if it.BasePrice() < sc.MinPrice {
		return false
	}
	if sc.MaxPrice != nil && it.BasePrice() > *sc.MaxPrice {
		return false
	}
	return !sc.InStockOnly || it.Stock() > 0
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
