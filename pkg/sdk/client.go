package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/catalogfile"
	dbRedis "github.com/abhichtrvd/1goli-sub001/internal/db/redis"
	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/cursor"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/filter"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
	catalogrepo "github.com/abhichtrvd/1goli-sub001/internal/repository/catalog"
	"github.com/abhichtrvd/1goli-sub001/internal/repository/media"
	"github.com/abhichtrvd/1goli-sub001/internal/repository/memcatalog"
	cataloguc "github.com/abhichtrvd/1goli-sub001/internal/usecase/catalog"
	healthuc "github.com/abhichtrvd/1goli-sub001/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "catalog:"
)

// Internal interfaces for substitution in tests.
type catalogUseCase interface {
	Paginate(ctx context.Context, req cataloguc.PageRequest) (cataloguc.Page, error)
	Search(ctx context.Context, q string, f filter.Set, sort sortspec.Sort) ([]item.Enriched, error)
	Count(ctx context.Context, f filter.Set) (int, error)
}

// backend is the record store behind a client.
type backend interface {
	put(ctx context.Context, items []item.Item) error
	Ping(ctx context.Context) error
	close()
}

// Client is the catalog SDK entry point.
type Client struct {
	backend      backend
	catalogSvc   catalogUseCase
	healthSvc    healthUseCase
	priceCeiling float64
	obs          *observer
}

// New creates a Client. Redis clients wait for the database and declare the
// catalog index; the provided context bounds that setup.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix, readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var (
		be    backend
		store cataloguc.Store
		kv    media.Resolver
	)
	switch cfg.driver {
	case driverRedis:
		rb, err := newRedisBackend(ctx, cfg)
		if err != nil {
			return nil, err
		}
		be, store, kv = rb, rb.repo, media.NewKVResolver(rb.store, cfg.keyPrefix)
	case driverMemory:
		mb, err := memcatalog.New()
		if err != nil {
			return nil, fmt.Errorf("catalog: create memory store: %w", err)
		}
		be, store = memoryBackend{mb}, mb
	case "":
		return nil, errors.New("catalog: record store required (use WithRedis or WithMemory)")
	default:
		return nil, fmt.Errorf("catalog: unknown driver %q", cfg.driver)
	}

	resolver, err := buildResolver(cfg, kv)
	if err != nil {
		be.close()
		return nil, err
	}
	return wireClient(be, store, resolver, cfg, obs), nil
}

func buildResolver(cfg *clientConfig, kv media.Resolver) (*media.Guarded, error) {
	next := kv
	if cfg.mediaBaseURL != "" {
		r, err := media.NewBaseURLResolver(cfg.mediaBaseURL)
		if err != nil {
			return nil, fmt.Errorf("catalog: media base URL: %w", err)
		}
		next = r
	}
	if next == nil {
		return nil, nil
	}
	return media.NewGuarded(next, media.DefaultBreakerConfig(), zap.NewNop()), nil
}

func wireClient(be backend, store cataloguc.Store, resolver *media.Guarded, cfg *clientConfig, obs *observer) *Client {
	ucCfg := cataloguc.Config{
		MaxPageSize:      cfg.maxPageSize,
		MaxSearchResults: cfg.maxSearchResults,
	}
	// Pass nil interfaces, not typed nil pointers, when no resolver is configured.
	var (
		mr cataloguc.MediaResolver
		mc healthuc.MediaChecker
	)
	if resolver != nil {
		mr, mc = resolver, resolver
	}
	return &Client{
		backend:      be,
		catalogSvc:   cataloguc.New(store, mr, ucCfg, zap.NewNop()),
		healthSvc:    healthuc.New(be, mc),
		priceCeiling: cfg.priceCeiling,
		obs:          obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.backend != nil {
		c.backend.close()
	}
}

// Ping checks record store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, -1, err) }()

	if err = c.backend.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Browse returns one page of req and the cursor that continues it.
func (c *Client) Browse(ctx context.Context, req BrowseRequest) (_ Page, err error) {
	start := time.Now()
	var page cataloguc.Page
	defer func() { c.obs.observe("browse", start, len(page.Items), err) }()

	pr := cataloguc.PageRequest{PageSize: req.PageSize, Query: req.Query}
	if pr.Filters, err = req.Filter.toDomain(c.priceCeiling); err != nil {
		return Page{}, err
	}
	if pr.Sort, err = sortspec.Parse(string(req.Sort)); err != nil {
		return Page{}, err
	}
	if pr.Cursor, err = cursor.Parse(req.Cursor); err != nil {
		return Page{}, err
	}
	page, err = c.catalogSvc.Paginate(ctx, pr)
	if err != nil {
		return Page{}, fmt.Errorf("browse: %w", err)
	}
	return Page{
		Items:      itemsFromDomain(page.Items),
		Done:       page.Done,
		NextCursor: page.NextCursor,
	}, nil
}

// Search returns every item matching q and f, capped at the configured maximum.
// An empty q lists the filtered catalog.
func (c *Client) Search(ctx context.Context, q string, f Filter, sort Sort) (_ []Item, err error) {
	start := time.Now()
	var found []item.Enriched
	defer func() { c.obs.observe("search", start, len(found), err) }()

	set, err := f.toDomain(c.priceCeiling)
	if err != nil {
		return nil, err
	}
	s, err := sortspec.Parse(string(sort))
	if err != nil {
		return nil, err
	}
	found, err = c.catalogSvc.Search(ctx, q, set, s)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return itemsFromDomain(found), nil
}

// Count returns the number of items matching f.
func (c *Client) Count(ctx context.Context, f Filter) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("count", start, -1, err) }()

	set, err := f.toDomain(c.priceCeiling)
	if err != nil {
		return 0, err
	}
	n, err = c.catalogSvc.Count(ctx, set)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Put inserts or replaces items by ID.
func (c *Client) Put(ctx context.Context, items ...Item) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put", start, -1, err) }()

	now := time.Now().UTC()
	out := make([]item.Item, 0, len(items))
	for i := range items {
		it := &items[i]
		id := it.ID
		if id == "" {
			id = catalogfile.MintID(it.Name, it.Brand, it.Category)
		}
		attrs := it.attributes()
		if attrs.CreatedAt.IsZero() {
			attrs.CreatedAt = now
		}
		d, err := item.New(id, attrs)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		out = append(out, d)
	}
	if err := c.backend.put(ctx, out); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// --- backends ---

type redisBackend struct {
	store *dbRedis.Store
	repo  *catalogrepo.Repo
}

func newRedisBackend(ctx context.Context, cfg *clientConfig) (*redisBackend, error) {
	if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
		return nil, errors.New("catalog: database address required")
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.addrs,
		Username:   cfg.username,
		Password:   cfg.password,
		DB:         cfg.database,
		ClientName: "catalog-sdk",
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalog: database not ready: %w", err)
	}
	repo := catalogrepo.New(store, cfg.keyPrefix)
	if err := repo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalog: ensure index: %w", err)
	}
	return &redisBackend{store: store, repo: repo}, nil
}

func (b *redisBackend) put(ctx context.Context, items []item.Item) error {
	return b.repo.PutItems(ctx, items)
}

func (b *redisBackend) Ping(ctx context.Context) error { return b.store.Ping(ctx) }

func (b *redisBackend) close() { b.store.Close() }

type memoryBackend struct {
	store *memcatalog.Store
}

func (b memoryBackend) put(ctx context.Context, items []item.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.store.Put(items...)
}

func (b memoryBackend) Ping(ctx context.Context) error { return b.store.Ping(ctx) }

func (b memoryBackend) close() { _ = b.store.Close() }
