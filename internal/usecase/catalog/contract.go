package catalog

import (
	"context"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/scan"
)

// Store defines the record store contract for catalog reads.
type Store interface {
	// ScanIndex returns up to limit items of sc after the position in token ("" = start).
	ScanIndex(ctx context.Context, sc scan.Scan, token string, limit int) (scan.Page[item.Item], error)
	// Collect returns every item in the range of sc, in sc's order.
	Collect(ctx context.Context, sc scan.Scan) ([]item.Item, error)
	// SearchText returns every text-index hit for q inside the range of sc, relevance first.
	SearchText(ctx context.Context, q string, sc scan.Scan) ([]item.Item, error)
	// CountScan returns the number of items in the range of sc.
	CountScan(ctx context.Context, sc scan.Scan) (int, error)
}

// MediaResolver resolves a stored media reference to a retrievable URL.
type MediaResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}
