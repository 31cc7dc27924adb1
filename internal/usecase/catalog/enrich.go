package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/metrics"
)

// enrich resolves each item's primary media reference concurrently. Output order
// matches input order. Resolution failures degrade to the stored plain URL; only
// cancellation of ctx fails the call.
func (s *Service) enrich(ctx context.Context, items []item.Item, log *zap.Logger) ([]item.Enriched, error) {
	out := make([]item.Enriched, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MediaConcurrency)
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = item.NewEnriched(items[i], s.mediaURL(gctx, &items[i], log))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) mediaURL(ctx context.Context, it *item.Item, log *zap.Logger) string {
	m := it.Media()
	if m.PrimaryRef == "" || s.media == nil {
		metrics.MediaResolutionsTotal.WithLabelValues(metrics.MediaAbsent).Inc()
		return m.PlainURL
	}
	url, err := s.media.Resolve(ctx, m.PrimaryRef)
	if err != nil || url == "" {
		metrics.MediaResolutionsTotal.WithLabelValues(metrics.MediaFallback).Inc()
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Debug("Media resolution failed, using stored URL",
				zap.String("item_id", it.ID()),
				zap.String("ref", m.PrimaryRef),
				zap.Error(err),
			)
		}
		return m.PlainURL
	}
	metrics.MediaResolutionsTotal.WithLabelValues(metrics.MediaResolved).Inc()
	return url
}
