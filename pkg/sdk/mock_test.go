package catalog

import (
	"context"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/filter"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
	cataloguc "github.com/abhichtrvd/1goli-sub001/internal/usecase/catalog"
	healthuc "github.com/abhichtrvd/1goli-sub001/internal/usecase/health"
)

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	paginateFn func(ctx context.Context, req cataloguc.PageRequest) (cataloguc.Page, error)
	searchFn   func(ctx context.Context, q string, f filter.Set, sort sortspec.Sort) ([]item.Enriched, error)
	countFn    func(ctx context.Context, f filter.Set) (int, error)
}

func (m *mockCatalogUC) Paginate(ctx context.Context, req cataloguc.PageRequest) (cataloguc.Page, error) {
	return m.paginateFn(ctx, req)
}

func (m *mockCatalogUC) Search(
	ctx context.Context, q string, f filter.Set, sort sortspec.Sort,
) ([]item.Enriched, error) {
	return m.searchFn(ctx, q, f, sort)
}

func (m *mockCatalogUC) Count(ctx context.Context, f filter.Set) (int, error) {
	return m.countFn(ctx, f)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- backend mock ---

type mockBackend struct {
	putFn   func(ctx context.Context, items []item.Item) error
	pingErr error
	closed  bool
}

func (m *mockBackend) put(ctx context.Context, items []item.Item) error {
	if m.putFn != nil {
		return m.putFn(ctx, items)
	}
	return nil
}

func (m *mockBackend) Ping(_ context.Context) error { return m.pingErr }

func (m *mockBackend) close() { m.closed = true }
