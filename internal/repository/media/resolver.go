// Package media resolves stored media references to retrievable URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
	"github.com/abhichtrvd/1goli-sub001/internal/domain"
)

// kvStore is the consumer interface for media lookups (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMulti(ctx context.Context, entries []db.KeyValue) error
}

// KVResolver looks references up under <prefix>media:<ref>.
type KVResolver struct {
	store  kvStore
	prefix string
}

// NewKVResolver creates a resolver backed by the key-value store.
func NewKVResolver(s kvStore, keyPrefix string) *KVResolver {
	return &KVResolver{store: s, prefix: keyPrefix}
}

// Resolve returns the URL stored for ref.
func (r *KVResolver) Resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", domain.ErrMediaNotFound
	}
	if isAbsoluteURL(ref) {
		return ref, nil
	}
	data, err := r.store.Get(ctx, mediaKey(r.prefix, ref))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrMediaNotFound
		}
		return "", fmt.Errorf("%w: %w", domain.ErrMediaUnavailable, err)
	}
	if len(data) == 0 {
		return "", domain.ErrMediaNotFound
	}
	return string(data), nil
}

// PutAll stores every ref to URL mapping in one pipelined write, in ref order.
func (r *KVResolver) PutAll(ctx context.Context, urls map[string]string) error {
	entries := make([]db.KeyValue, 0, len(urls))
	for _, ref := range slices.Sorted(maps.Keys(urls)) {
		if ref == "" || urls[ref] == "" {
			return fmt.Errorf("%w: media ref and url are required (ref %q)", domain.ErrInvalidInput, ref)
		}
		entries = append(entries, db.KeyValue{Key: mediaKey(r.prefix, ref), Value: []byte(urls[ref])})
	}
	if err := r.store.SetMulti(ctx, entries); err != nil {
		return fmt.Errorf("store %d media refs: %w", len(entries), err)
	}
	return nil
}

// BaseURLResolver joins references onto a static base URL.
type BaseURLResolver struct {
	base string
}

// NewBaseURLResolver creates a resolver for references served under base.
func NewBaseURLResolver(base string) (*BaseURLResolver, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid media base URL %q", base)
	}
	return &BaseURLResolver{base: strings.TrimRight(base, "/")}, nil
}

// Resolve returns <base>/<escaped ref>.
func (r *BaseURLResolver) Resolve(_ context.Context, ref string) (string, error) {
	if ref == "" {
		return "", domain.ErrMediaNotFound
	}
	if isAbsoluteURL(ref) {
		return ref, nil
	}
	segments := strings.Split(strings.Trim(ref, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return r.base + "/" + strings.Join(segments, "/"), nil
}

func mediaKey(prefix, ref string) string { return prefix + "media:" + ref }

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://")
}
