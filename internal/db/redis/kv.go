package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
)

// Get returns the value at key, or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.do(ctx, s.b().Get().Key(key).Build()).AsBytes()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, &db.Error{Op: db.OpGet, Key: key, Err: err}
	}
	return data, nil
}

// SetMulti stores entries with pipelined SETs. Keys may live in different
// cluster slots, so MSET is not used.
func (s *Store) SetMulti(ctx context.Context, entries []db.KeyValue) error {
	if len(entries) == 0 {
		return nil
	}
	cmds := make(rueidis.Commands, len(entries))
	for i := range entries {
		cmds[i] = s.b().Set().Key(entries[i].Key).Value(rueidis.BinaryString(entries[i].Value)).Build()
	}
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpSet, Key: entries[i].Key, Err: err}
		}
	}
	return nil
}
