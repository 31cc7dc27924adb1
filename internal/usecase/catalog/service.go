// Package catalog answers catalog browse, search and count requests.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/cursor"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/filter"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
	"github.com/abhichtrvd/1goli-sub001/internal/logger"
	"github.com/abhichtrvd/1goli-sub001/internal/metrics"
)

// Operation labels.
const (
	opCount    = "count"
	opPaginate = "paginate"
	opSearch   = "search"
)

// Config bounds request cost.
type Config struct {
	MaxPageSize      int // larger page sizes are capped
	MaxSearchResults int // cap on Search results; Paginate is never capped
	MediaConcurrency int // parallel media resolutions per page
}

// DefaultConfig returns the limits used for zero Config fields.
func DefaultConfig() Config {
	return Config{MaxPageSize: 100, MaxSearchResults: 500, MediaConcurrency: 16}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = d.MaxPageSize
	}
	if c.MaxSearchResults <= 0 {
		c.MaxSearchResults = d.MaxSearchResults
	}
	if c.MediaConcurrency <= 0 {
		c.MediaConcurrency = d.MediaConcurrency
	}
	return c
}

// PageRequest is a Paginate input.
type PageRequest struct {
	Filters  filter.Set
	Sort     sortspec.Sort
	Cursor   cursor.Cursor
	PageSize int
	// Query is optional free text. A query forces offset pagination.
	Query string
}

// Service resolves catalog requests against a record store.
type Service struct {
	store  Store
	media  MediaResolver
	cfg    Config
	logger *zap.Logger
}

// New creates a catalog service. media may be nil, in which case stored plain URLs are used.
func New(store Store, media MediaResolver, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, media: media, cfg: cfg.withDefaults(), logger: logger}
}

// Count returns the number of items matching f.
func (s *Service) Count(ctx context.Context, f filter.Set) (int, error) {
	defer observe(opCount, time.Now())
	log := logger.FromContextOr(ctx, s.logger)

	plan := Select(f, sortspec.None, false)
	metrics.QueriesTotal.WithLabelValues(opCount, plan.Kind.String()).Inc()
	log.Debug("Count strategy selected", zap.Stringer("strategy", plan.Kind), zap.String("index", string(plan.Index)))

	if plan.Kind == KindIndexScan {
		n, err := s.store.CountScan(ctx, plan.Scan)
		if err != nil {
			return 0, fmt.Errorf("count scan: %w", err)
		}
		return n, nil
	}
	items, err := s.materialize(ctx, plan, f)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Paginate returns one page of items matching the request and the cursor that continues it.
func (s *Service) Paginate(ctx context.Context, req PageRequest) (Page, error) {
	defer observe(opPaginate, time.Now())
	log := logger.FromContextOr(ctx, s.logger)

	if req.PageSize <= 0 {
		return Page{}, domain.NewFieldError("page_size", "must be positive")
	}
	size := min(req.PageSize, s.cfg.MaxPageSize)
	query := normalizeQuery(req.Query)

	plan := Select(req.Filters, req.Sort, query != "")
	metrics.QueriesTotal.WithLabelValues(opPaginate, plan.Kind.String()).Inc()
	log.Debug("Paginate strategy selected",
		zap.Stringer("strategy", plan.Kind),
		zap.String("index", string(plan.Index)),
		zap.Bool("desc", plan.Scan.Desc),
		zap.Stringer("cursor_kind", req.Cursor.Kind()),
	)

	var (
		items []item.Item
		page  Page
	)
	switch plan.Kind {
	case KindIndexScan:
		token := ""
		switch req.Cursor.Kind() {
		case cursor.KindIndex:
			token = req.Cursor.Token()
		case cursor.KindOffset:
			log.Warn("Offset cursor presented to an index scan, restarting", zap.String("cursor", req.Cursor.String()))
		}
		res, err := s.store.ScanIndex(ctx, plan.Scan, token, size)
		if errors.Is(err, domain.ErrCursorMismatch) {
			log.Warn("Index cursor does not match the active scan, restarting",
				zap.String("scan", plan.Scan.Key()), zap.Error(err))
			res, err = s.store.ScanIndex(ctx, plan.Scan, "", size)
		}
		if err != nil {
			return Page{}, fmt.Errorf("scan index: %w", err)
		}
		items = res.Items
		page.Done = res.Done
		if !res.Done {
			page.NextCursor = cursor.Index(res.Next).String()
		}

	case KindMaterialize:
		offset := 0
		switch req.Cursor.Kind() {
		case cursor.KindOffset:
			offset = req.Cursor.OffsetValue()
		case cursor.KindIndex:
			log.Warn("Index cursor presented to a materialized query, restarting", zap.String("cursor", req.Cursor.String()))
		}
		all, err := s.candidates(ctx, plan, req.Filters, req.Sort, query, log)
		if err != nil {
			return Page{}, err
		}
		items, page.Done, page.NextCursor = offsetSlice(all, offset, size)
	}

	enriched, err := s.enrich(ctx, items, log)
	if err != nil {
		return Page{}, fmt.Errorf("enrich page: %w", err)
	}
	page.Items = enriched
	return page, nil
}

// Search returns every item matching q and f, ordered by sort (relevance when unset),
// capped at the configured maximum. An empty q lists the filtered collection.
func (s *Service) Search(ctx context.Context, q string, f filter.Set, sort sortspec.Sort) ([]item.Enriched, error) {
	defer observe(opSearch, time.Now())
	log := logger.FromContextOr(ctx, s.logger)
	query := normalizeQuery(q)

	plan := Select(f, sort, query != "")
	// Search always returns the whole filtered set, so it reads in collection order.
	plan.Kind = KindMaterialize
	plan.Scan.Order, plan.Scan.Desc = sortspec.IndexCreation, true
	metrics.QueriesTotal.WithLabelValues(opSearch, plan.Kind.String()).Inc()
	log.Debug("Search strategy selected",
		zap.String("index", string(plan.Index)),
		zap.Bool("has_query", query != ""),
	)

	all, err := s.candidates(ctx, plan, f, sort, query, log)
	if err != nil {
		return nil, err
	}
	if len(all) > s.cfg.MaxSearchResults {
		all = all[:s.cfg.MaxSearchResults]
	}
	enriched, err := s.enrich(ctx, all, log)
	if err != nil {
		return nil, fmt.Errorf("enrich results: %w", err)
	}
	return enriched, nil
}

// candidates returns the filtered and sorted result set of a materialized plan.
func (s *Service) candidates(
	ctx context.Context, plan Plan, f filter.Set, sort sortspec.Sort, query string, log *zap.Logger,
) ([]item.Item, error) {
	if query == "" {
		items, err := s.materialize(ctx, plan, f)
		if err != nil {
			return nil, err
		}
		sortItems(items, sort, false)
		return items, nil
	}

	out, err := s.resolveSearch(ctx, query, f, plan.Scan, log)
	if err != nil {
		return nil, err
	}
	sortItems(out, sort, true)
	return out, nil
}

// materialize reads the plan's source scan and keeps the items matching f, in collection order.
func (s *Service) materialize(ctx context.Context, plan Plan, f filter.Set) ([]item.Item, error) {
	all, err := s.store.Collect(ctx, plan.Scan)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", plan.Index, err)
	}
	return keepMatching(all, f), nil
}

func observe(op string, start time.Time) {
	metrics.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
