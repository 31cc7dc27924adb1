package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/scan"
	"github.com/abhichtrvd/1goli-sub001/internal/logger"
	"github.com/abhichtrvd/1goli-sub001/internal/metrics"
)

// Record store operation labels.
const (
	storeOpScanIndex  = "scan_index"
	storeOpCollect    = "collect"
	storeOpSearchText = "search_text"
	storeOpCountScan  = "count_scan"
)

// InstrumentedStore wraps a Store with per-call metrics and logging.
// Errors pass through unchanged.
type InstrumentedStore struct {
	inner  Store
	driver string
	logger *zap.Logger
}

var _ Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps inner. driver labels the metrics.
func NewInstrumentedStore(inner Store, driver string, logger *zap.Logger) *InstrumentedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedStore{inner: inner, driver: driver, logger: logger}
}

// ScanIndex delegates to the inner store.
func (s *InstrumentedStore) ScanIndex(
	ctx context.Context, sc scan.Scan, token string, limit int,
) (scan.Page[item.Item], error) {
	start := time.Now()
	page, err := s.inner.ScanIndex(ctx, sc, token, limit)
	s.record(ctx, storeOpScanIndex, start, len(page.Items), err, zap.String("scan", sc.Key()))
	return page, err
}

// Collect delegates to the inner store.
func (s *InstrumentedStore) Collect(ctx context.Context, sc scan.Scan) ([]item.Item, error) {
	start := time.Now()
	items, err := s.inner.Collect(ctx, sc)
	s.record(ctx, storeOpCollect, start, len(items), err, zap.String("scan", sc.Key()))
	return items, err
}

// SearchText delegates to the inner store.
func (s *InstrumentedStore) SearchText(ctx context.Context, q string, sc scan.Scan) ([]item.Item, error) {
	start := time.Now()
	items, err := s.inner.SearchText(ctx, q, sc)
	s.record(ctx, storeOpSearchText, start, len(items), err, zap.String("scan", sc.Key()))
	return items, err
}

// CountScan delegates to the inner store.
func (s *InstrumentedStore) CountScan(ctx context.Context, sc scan.Scan) (int, error) {
	start := time.Now()
	n, err := s.inner.CountScan(ctx, sc)
	s.record(ctx, storeOpCountScan, start, -1, err, zap.String("scan", sc.Key()))
	return n, err
}

func (s *InstrumentedStore) record(ctx context.Context, op string, start time.Time, n int, err error, field zap.Field) {
	duration := time.Since(start)
	metrics.StoreRequestDuration.WithLabelValues(s.driver, op).Observe(duration.Seconds())

	log := logger.FromContextOr(ctx, s.logger)
	switch {
	case err == nil:
		metrics.StoreRequestsTotal.WithLabelValues(s.driver, op, metrics.StoreOK).Inc()
		if n >= 0 {
			metrics.StoreItemsReturned.WithLabelValues(s.driver, op).Observe(float64(n))
		}
		log.Debug("Record store call completed",
			zap.String("operation", op), field, zap.Duration("duration", duration), zap.Int("items", n))
	case errors.Is(err, domain.ErrCursorMismatch):
		// The engine restarts the scan; not a store failure.
		metrics.StoreRequestsTotal.WithLabelValues(s.driver, op, metrics.StoreMismatch).Inc()
	default:
		metrics.StoreRequestsTotal.WithLabelValues(s.driver, op, metrics.StoreError).Inc()
		if !errors.Is(err, domain.ErrTextSearchNotSupported) && !errors.Is(err, domain.ErrInvalidCursor) {
			log.Error("Record store call failed",
				zap.String("operation", op), field, zap.Duration("duration", duration), zap.Error(err))
		}
	}
}
