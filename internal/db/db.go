// Package db is the record-store facade behind the catalog repositories.
// Implementations speak RediSearch: item hashes, one FT index over them, and
// plain string keys for media references.
package db

import (
	"context"
	"time"
)

// Store combines every capability the catalog wires at startup.
//
//nolint:interfacebloat // consumers depend on narrow sub-interfaces
type Store interface {
	Pinger
	RecordWriter
	KVStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem is one item hash written by a pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// RecordWriter writes catalog item hashes.
type RecordWriter interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
}

// KeyValue is one string key written by SetMulti.
type KeyValue struct {
	Key   string
	Value []byte
}

// KVStore reads and writes media reference keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMulti(ctx context.Context, entries []KeyValue) error
}

// IndexManager declares and probes the catalog's FT index.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Searcher runs FT.SEARCH pages and counts.
type Searcher interface {
	Search(ctx context.Context, q *Query) (*SearchResult, error)
	SearchCount(ctx context.Context, q *Query) (int, error)
}
