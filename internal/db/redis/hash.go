package redis

import (
	"context"
	"maps"
	"slices"

	"github.com/redis/rueidis"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
)

// HSetMulti writes item hashes in one pipelined round trip. The first failed
// key is reported; earlier writes in the batch are not rolled back. Items
// without fields are skipped.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}
	cmds := make(rueidis.Commands, 0, len(items))
	keys := make([]string, 0, len(items))
	for i := range items {
		if len(items[i].Fields) == 0 {
			continue
		}
		cmds = append(cmds, s.hset(items[i].Key, items[i].Fields))
		keys = append(keys, items[i].Key)
	}
	if len(cmds) == 0 {
		return nil
	}
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Key: keys[i], Err: err}
		}
	}
	return nil
}

// hset emits fields in name order so identical items produce identical commands.
func (s *Store) hset(key string, fields map[string]string) rueidis.Completed {
	cmd := s.b().Hset().Key(key).FieldValue()
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		cmd = cmd.FieldValue(name, fields[name])
	}
	return cmd.Build()
}
