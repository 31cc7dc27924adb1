package catalog

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	noTextSearch  bool
	searchFn      func(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, q *db.Query) (int, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SupportsTextSearch(_ context.Context) bool {
	return !m.noTextSearch
}

func (m *mockStore) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, q *db.Query) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, q)
	}
	return 0, nil
}

// sliceStore serves Search from a fixed, pre-ordered list of items.
func sliceStore(items []item.Item) *mockStore {
	return &mockStore{
		searchFn: func(_ context.Context, q *db.Query) (*db.SearchResult, error) {
			res := &db.SearchResult{Total: len(items)}
			for i := q.Offset; i < len(items) && i < q.Offset+q.Limit; i++ {
				res.Entries = append(res.Entries, db.SearchEntry{
					Key:    itemKey("t:", items[i].ID()),
					Fields: buildHashFields(&items[i]),
				})
			}
			return res, nil
		},
	}
}

func makeItems(t *testing.T, n int) []item.Item {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]item.Item, n)
	for i := range out {
		it, err := item.New("id-"+strconv.Itoa(i), item.Attributes{
			Name:      "Item " + strconv.Itoa(i),
			BasePrice: float64(10 * i),
			Stock:     i % 3,
			CreatedAt: base.Add(time.Duration(n-i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("item.New: %v", err)
		}
		out[i] = it
	}
	return out
}

func ids(items []item.Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID()
	}
	return out
}
