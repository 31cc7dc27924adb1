package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/scan"
)

const defaultBatchSize = 500

// store is the consumer interface for catalog items (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	SearchCount(ctx context.Context, q *db.Query) (int, error)
}

// Repo implements usecase/catalog.Store over a RediSearch index of item hashes.
type Repo struct {
	store     store
	prefix    string
	batchSize int
}

// New creates a catalog repository. keyPrefix namespaces item keys and the index.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix, batchSize: defaultBatchSize}
}

// WithBatchSize sets the page size used by Collect.
func (r *Repo) WithBatchSize(n int) *Repo {
	if n > 0 {
		r.batchSize = n
	}
	return r
}

// EnsureIndex declares the catalog index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := buildIndex(r.prefix)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	exists, err := r.store.IndexExists(ctx, def.Name)
	if err != nil {
		return domain.NewStoreError("index exists", err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return domain.NewStoreError("create index", err)
	}
	return nil
}

// RebuildIndex drops the catalog index and declares it again. Item hashes are
// kept and re-indexed in the background by the server.
func (r *Repo) RebuildIndex(ctx context.Context) error {
	def, err := buildIndex(r.prefix)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.DropIndex(ctx, def.Name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return domain.NewStoreError("drop index", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return domain.NewStoreError("create index", err)
	}
	return nil
}

// PutItems stores items as hashes in one pipelined round-trip.
func (r *Repo) PutItems(ctx context.Context, items []item.Item) error {
	batch := make([]db.HashSetItem, len(items))
	for i := range items {
		batch[i] = db.HashSetItem{
			Key:    itemKey(r.prefix, items[i].ID()),
			Fields: buildHashFields(&items[i]),
		}
	}
	if err := r.store.HSetMulti(ctx, batch); err != nil {
		return domain.NewStoreError("put items", err)
	}
	return nil
}

// ScanIndex returns up to limit items of sc starting at the position in token.
// The token is bound to sc; a token from another scan yields domain.ErrCursorMismatch.
func (r *Repo) ScanIndex(ctx context.Context, sc scan.Scan, token string, limit int) (scan.Page[item.Item], error) {
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

	q, err := r.scanQuery(sc)
	if err != nil {
		return scan.Page[item.Item]{}, err
	}
	q.Offset = pos
	q.Limit = limit + 1

	res, err := r.store.Search(ctx, q)
	if err != nil {
		return scan.Page[item.Item]{}, domain.NewStoreError("scan index", err)
	}

	items := r.entriesToItems(res.Entries)
	page := scan.Page[item.Item]{Done: len(items) <= limit}
	if !page.Done {
		items = items[:limit]
		page.Next = scan.EncodeToken(sc, pos+limit)
	}
	page.Items = items
	return page, nil
}

// Collect reads the full range of sc in index order, batch by batch.
func (r *Repo) Collect(ctx context.Context, sc scan.Scan) ([]item.Item, error) {
	q, err := r.scanQuery(sc)
	if err != nil {
		return nil, err
	}
	return r.readAll(ctx, q, "collect")
}

// SearchText returns every item in the range of sc matching every term of query,
// in relevance order.
func (r *Repo) SearchText(ctx context.Context, query string, sc scan.Scan) ([]item.Item, error) {
	if !r.store.SupportsTextSearch(ctx) {
		return nil, domain.ErrTextSearchNotSupported
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	q, err := r.scanQuery(sc)
	if err != nil {
		return nil, err
	}
	q.SortBy, q.SortDesc, q.ThenBy, q.ThenDesc = "", false, "", false
	q.Text = query
	q.TextField = fieldSearchText
	return r.readAll(ctx, q, "search text")
}

// readAll pages through q until a short batch.
func (r *Repo) readAll(ctx context.Context, q *db.Query, op string) ([]item.Item, error) {
	q.Offset = 0
	q.Limit = r.batchSize

	var out []item.Item
	for {
		res, err := r.store.Search(ctx, q)
		if err != nil {
			return nil, domain.NewStoreError(op, err)
		}
		out = append(out, r.entriesToItems(res.Entries)...)
		if len(res.Entries) < q.Limit {
			return out, nil
		}
		q.Offset += len(res.Entries)
	}
}

// CountScan returns the number of items in the range of sc.
func (r *Repo) CountScan(ctx context.Context, sc scan.Scan) (int, error) {
	q, err := r.scanQuery(sc)
	if err != nil {
		return 0, err
	}
	n, err := r.store.SearchCount(ctx, q)
	if err != nil {
		return 0, domain.NewStoreError("count", err)
	}
	return n, nil
}

func (r *Repo) scanQuery(sc scan.Scan) (*db.Query, error) {
	field, ok := sortField(sc.Order)
	if !ok {
		return nil, fmt.Errorf("%w: index %q has no native order", domain.ErrInvalidInput, sc.Order)
	}
	q := &db.Query{
		IndexName: indexName(r.prefix),
		SortBy:    field,
		SortDesc:  sc.Desc,
	}
	// Ties fall back to collection order (newest first), matching the in-memory store.
	if field != fieldCreatedAt {
		q.ThenBy, q.ThenDesc = fieldCreatedAt, true
	}
	if len(sc.Brands) > 0 {
		q.Filters = append(q.Filters, db.TagAnyOf(fieldBrand, sc.Brands...))
	}
	if len(sc.Categories) > 0 {
		q.Filters = append(q.Filters, db.TagAnyOf(fieldCategory, sc.Categories...))
	}
	if sc.MinPrice > 0 || sc.MaxPrice != nil {
		minPrice := sc.MinPrice
		q.Filters = append(q.Filters, db.NumericRange(fieldPrice, &minPrice, sc.MaxPrice))
	}
	if sc.InStockOnly {
		q.Filters = append(q.Filters, db.NumericAbove(fieldStock, 0))
	}
	return q, nil
}

func (r *Repo) entriesToItems(entries []db.SearchEntry) []item.Item {
	items := make([]item.Item, 0, len(entries))
	prefix := itemPrefix(r.prefix)
	for _, e := range entries {
		id := strings.TrimPrefix(e.Key, prefix)
		if v, ok := e.Fields[fieldID]; ok && v != "" {
			id = v
		}
		items = append(items, parseHashFields(id, e.Fields))
	}
	return items
}
