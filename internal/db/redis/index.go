package redis

import (
	"context"
	"fmt"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
)

// CreateIndex declares def with FT.CREATE. A taken name yields db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("index %q: %w", def.Name, err)
	}
	cmd := s.b().Arbitrary(db.OpCreateIndex).Args(def.Args()...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Key: def.Name, Err: err}
	}
	return nil
}

// DropIndex removes the index definition. Indexed hashes are kept.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary(db.OpDropIndex).Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Key: name, Err: err}
	}
	return nil
}

// IndexExists probes the index with FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary(db.OpIndexInfo).Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Key: name, Err: err}
	}
	return true, nil
}

// SupportsTextSearch reports whether the server has the search module. The
// answer is probed with FT._LIST and cached once the server has replied;
// transport failures are not cached and report true, leaving the search
// itself to surface the error.
func (s *Store) SupportsTextSearch(ctx context.Context) bool {
	s.textMu.Lock()
	defer s.textMu.Unlock()
	if s.textProbed {
		return s.textSearch
	}

	err := s.do(ctx, s.b().Arbitrary(db.OpIndexList).Build()).Error()
	switch {
	case err == nil:
		s.textProbed, s.textSearch = true, true
	case isRedisErr(err, "unknown command"):
		s.textProbed, s.textSearch = true, false
	default:
		return true
	}
	return s.textSearch
}
