package redis

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
)

// --- client.go tests ---

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		res     rueidis.RedisResult
		wantErr bool
	}{
		{"pong", mock.Result(mock.RedisString("PONG")), false},
		{"timeout", mock.ErrorResult(context.DeadlineExceeded), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(tt.res)

			err := NewStoreForTest(c).Ping(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Ping() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWaitForReady_RetriesUntilPong(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.ErrorResult(errors.New("connection refused"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.ErrorResult(errors.New("connection refused"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.Result(mock.RedisString("PONG"))),
	)

	if err := NewStoreForTest(c).WaitForReady(context.Background(), 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(errors.New("connection refused"))).
		MinTimes(1)

	err := NewStoreForTest(c).WaitForReady(context.Background(), 120*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestIsRedisErr(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.Result(mock.RedisError("ERR Unknown Index name")))

	err := c.Do(context.Background(), c.B().Ping().Build()).Error()
	if !isRedisErr(err, "unknown index name") {
		t.Errorf("isRedisErr(%v) = false", err)
	}
	if isRedisErr(err, "already exists") {
		t.Error("isRedisErr matched an unrelated message")
	}
	if isRedisErr(context.Canceled, "canceled") {
		t.Error("isRedisErr matched a non-server error")
	}
}

// --- hash.go tests ---

func TestHSetMulti_FieldOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("HSET", "item:1", "brand", "Boiron", "name", "Arnica", "price", "120"),
			mock.Match("HSET", "item:2", "name", "Bryonia"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(3)),
			mock.Result(mock.RedisInt64(1)),
		})

	err := NewStoreForTest(c).HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "item:1", Fields: map[string]string{"price": "120", "name": "Arnica", "brand": "Boiron"}},
		{Key: "item:empty"},
		{Key: "item:2", Fields: map[string]string{"name": "Bryonia"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_ReportsFailedKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisError("OOM command not allowed")),
		})

	err := NewStoreForTest(c).HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "item:1", Fields: map[string]string{"name": "a"}},
		{Key: "item:2", Fields: map[string]string{"name": "b"}},
	})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpHSet || dbErr.Key != "item:2" {
		t.Errorf("expected HSET error on item:2, got %v", err)
	}
}

func TestHSetMulti_NothingToWrite(t *testing.T) {
	s := NewStoreForTest(nil)
	for _, items := range [][]db.HashSetItem{nil, {{Key: "item:empty"}}} {
		if err := s.HSetMulti(context.Background(), items); err != nil {
			t.Errorf("HSetMulti(%v) = %v", items, err)
		}
	}
}

// --- kv.go tests ---

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		res     rueidis.RedisResult
		want    string
		wantErr error
	}{
		{"found", mock.Result(mock.RedisString("https://cdn/a.jpg")), "https://cdn/a.jpg", nil},
		{"missing", mock.Result(mock.RedisNil()), "", db.ErrKeyNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().Do(gomock.Any(), mock.Match("GET", "media:a")).Return(tt.res)

			got, err := NewStoreForTest(c).Get(context.Background(), "media:a")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGet_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().Do(gomock.Any(), mock.Match("GET", "media:a")).Return(mock.ErrorResult(errors.New("conn reset")))

	_, err := NewStoreForTest(c).Get(context.Background(), "media:a")
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Key != "media:a" {
		t.Errorf("expected keyed db.Error, got %v", err)
	}
}

func TestSetMulti(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("SET", "media:a", "https://cdn/a.jpg"),
			mock.Match("SET", "media:b", "https://cdn/b.jpg"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("OK")),
			mock.Result(mock.RedisError("READONLY You can't write against a read only replica")),
		})

	err := NewStoreForTest(c).SetMulti(context.Background(), []db.KeyValue{
		{Key: "media:a", Value: []byte("https://cdn/a.jpg")},
		{Key: "media:b", Value: []byte("https://cdn/b.jpg")},
	})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSet || dbErr.Key != "media:b" {
		t.Errorf("expected SET error on media:b, got %v", err)
	}

	if err := NewStoreForTest(nil).SetMulti(context.Background(), nil); err != nil {
		t.Errorf("empty SetMulti = %v", err)
	}
}

// --- index.go tests ---

func catalogIndex(t *testing.T) *db.IndexDefinition {
	t.Helper()
	def, err := db.NewIndex("items:idx").
		Prefix("item:").
		NoStopwords().
		Tags("brand", "|").
		SortableNumeric("price").
		SortKey("name_sort").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return def
}

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	if err := NewStoreForTest(c).CreateIndex(context.Background(), catalogIndex(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"FT.CREATE", "items:idx", "ON", "HASH", "PREFIX", "1", "item:", "STOPWORDS", "0", "SCHEMA",
		"brand", "TAG", "SEPARATOR", "|", "CASESENSITIVE",
		"price", "NUMERIC", "SORTABLE",
		"name_sort", "TEXT", "NOSTEM", "SORTABLE", "NOINDEX",
	}
	if !slices.Equal(got, want) {
		t.Errorf("FT.CREATE args:\n got %v\nwant %v", got, want)
	}
}

func TestCreateIndex_Errors(t *testing.T) {
	tests := []struct {
		name    string
		res     rueidis.RedisResult
		wantErr error
		dbErr   bool
	}{
		{"exists", mock.Result(mock.RedisError("Index already exists")), db.ErrIndexExists, false},
		{"transport", mock.ErrorResult(context.DeadlineExceeded), context.DeadlineExceeded, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().
				Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.CREATE" })).
				Return(tt.res)

			err := NewStoreForTest(c).CreateIndex(context.Background(), catalogIndex(t))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if got := isDBError(err); got != tt.dbErr {
				t.Errorf("isDBError = %v, want %v", got, tt.dbErr)
			}
		})
	}
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	// No command may be sent for an invalid definition.
	s := NewStoreForTest(mock.NewClient(gomock.NewController(t)))
	if err := s.CreateIndex(context.Background(), &db.IndexDefinition{Name: "items:idx"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDropIndex(t *testing.T) {
	tests := []struct {
		name    string
		res     rueidis.RedisResult
		wantErr error
	}{
		{"dropped", mock.Result(mock.RedisString("OK")), nil},
		{"unknown", mock.Result(mock.RedisError("Unknown Index name")), db.ErrIndexNotFound},
		{"no such index", mock.Result(mock.RedisError("items:idx: no such index")), db.ErrIndexNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().Do(gomock.Any(), mock.Match("FT.DROPINDEX", "items:idx")).Return(tt.res)

			err := NewStoreForTest(c).DropIndex(context.Background(), "items:idx")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name    string
		res     rueidis.RedisResult
		want    bool
		wantErr bool
	}{
		{"exists", mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("items:idx"))), true, false},
		{"unknown", mock.Result(mock.RedisError("Unknown Index name")), false, false},
		{"transport", mock.ErrorResult(context.DeadlineExceeded), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.INFO", "items:idx")).
				Return(tt.res)

			exists, err := NewStoreForTest(c).IndexExists(context.Background(), "items:idx")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if exists != tt.want {
				t.Errorf("exists = %v, want %v", exists, tt.want)
			}
		})
	}
}

func TestSupportsTextSearch(t *testing.T) {
	tests := []struct {
		name  string
		res   rueidis.RedisResult
		want  bool
		calls int // FT._LIST calls over two probes
	}{
		{"search module", mock.Result(mock.RedisArray()), true, 1},
		{"plain server", mock.Result(mock.RedisError("ERR unknown command 'FT._LIST'")), false, 1},
		{"unreachable", mock.ErrorResult(context.DeadlineExceeded), true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().Do(gomock.Any(), mock.Match("FT._LIST")).Return(tt.res).Times(tt.calls)

			s := NewStoreForTest(c)
			for range 2 {
				if got := s.SupportsTextSearch(context.Background()); got != tt.want {
					t.Errorf("SupportsTextSearch() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// --- search.go tests ---

func TestSearch_SortedPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "items:idx", "@brand:{Boiron} @stock:[(0 +inf]",
			"SORTBY", "price", "DESC", "LIMIT", "10", "6", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(12),
			mock.RedisString("item:1"),
			mock.RedisArray(mock.RedisString("name"), mock.RedisString("Arnica")),
			mock.RedisString("item:2"),
			mock.RedisArray(mock.RedisString("name"), mock.RedisString("Belladonna")),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.Query{
		IndexName: "items:idx",
		Filters:   []db.Predicate{db.TagAnyOf("brand", "Boiron"), db.NumericAbove("stock", 0)},
		SortBy:    "price",
		SortDesc:  true,
		Offset:    10,
		Limit:     6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 12 || len(res.Entries) != 2 {
		t.Fatalf("total=%d entries=%d", res.Total, len(res.Entries))
	}
	if res.Entries[1].Key != "item:2" || res.Entries[1].Fields["name"] != "Belladonna" {
		t.Errorf("entry[1] = %+v", res.Entries[1])
	}
}

func TestSearch_ThenByUsesAggregate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match(
				"FT.AGGREGATE", "items:idx", "@brand:{Boiron}",
				"LOAD", "1", "@__key",
				"SORTBY", "4", "@price", "ASC", "@created_at", "DESC",
				"LIMIT", "4", "3", "DIALECT", "2",
			)).
			Return(mock.Result(mock.RedisArray(
				mock.RedisInt64(3),
				mock.RedisArray(mock.RedisString("__key"), mock.RedisString("item:b")),
				mock.RedisArray(mock.RedisString("__key"), mock.RedisString("item:gone")),
				mock.RedisArray(mock.RedisString("__key"), mock.RedisString("item:a")),
			))),
		c.EXPECT().
			DoMulti(gomock.Any(),
				mock.Match("HGETALL", "item:b"),
				mock.Match("HGETALL", "item:gone"),
				mock.Match("HGETALL", "item:a"),
			).
			Return([]rueidis.RedisResult{
				mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{"name": mock.RedisString("Belladonna")})),
				mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{})),
				mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{"name": mock.RedisString("Arnica")})),
			}),
	)

	res, err := NewStoreForTest(c).Search(context.Background(), &db.Query{
		IndexName: "items:idx",
		Filters:   []db.Predicate{db.TagAnyOf("brand", "Boiron")},
		SortBy:    "price",
		ThenBy:    "created_at",
		ThenDesc:  true,
		Offset:    4,
		Limit:     3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var keys []string
	for _, e := range res.Entries {
		keys = append(keys, e.Key)
	}
	if !slices.Equal(keys, []string{"item:b", "item:a"}) || res.Entries[1].Fields["name"] != "Arnica" {
		t.Errorf("entries = %+v", res.Entries)
	}
	if res.Total != 6 {
		t.Errorf("total = %d, want offset+entries = 6", res.Total)
	}
}

func TestSearch_ThenByErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.ErrorResult(errors.New("timeout")))

	_, err := NewStoreForTest(c).Search(context.Background(), &db.Query{
		IndexName: "items:idx", SortBy: "price", ThenBy: "created_at", Limit: 2,
	})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpAggregate {
		t.Errorf("expected FT.AGGREGATE error, got %v", err)
	}
}

func TestSearch_Text(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "items:idx", `@search_text:(arnica 30c\-x)`,
			"LIMIT", "0", "50", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.Query{
		IndexName: "items:idx",
		Text:      " arnica  30c-x ",
		TextField: "search_text",
		Limit:     50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := NewStoreForTest(nil)
	tests := []struct {
		name string
		q    db.Query
	}{
		{"no index", db.Query{Limit: 1}},
		{"negative offset", db.Query{IndexName: "i", Offset: -1, Limit: 1}},
		{"zero limit", db.Query{IndexName: "i"}},
		{"text without field", db.Query{IndexName: "i", Text: "x", Limit: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Search(context.Background(), &tt.q); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.SEARCH" })).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.Query{IndexName: "items:idx", Limit: 5})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestSearchCount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "items:idx", "@category:{Cosmetics | Personal\\ Care}",
			"LIMIT", "0", "0", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(13))))

	s := NewStoreForTest(c)
	count, err := s.SearchCount(context.Background(), &db.Query{
		IndexName: "items:idx",
		Filters:   []db.Predicate{db.TagAnyOf("category", "Cosmetics", "Personal Care")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 13 {
		t.Errorf("expected 13, got %d", count)
	}
}

func TestSearchCount_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray()))

	s := NewStoreForTest(c)
	count, err := s.SearchCount(context.Background(), &db.Query{IndexName: "items:idx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
}

// --- Query building tests ---

func TestBuildQuery(t *testing.T) {
	lo, hi := 10.0, 99.5
	tests := []struct {
		name string
		q    db.Query
		want string
	}{
		{"match all", db.Query{}, "*"},
		{"tag", db.Query{Filters: []db.Predicate{db.TagAnyOf("brand", "Dr. Reckeweg")}}, `@brand:{Dr\.\ Reckeweg}`},
		{"range", db.Query{Filters: []db.Predicate{db.NumericRange("price", &lo, &hi)}}, `@price:[10 99.5]`},
		{"min only", db.Query{Filters: []db.Predicate{db.NumericRange("price", &lo, nil)}}, `@price:[10 +inf]`},
		{"open range skipped", db.Query{Filters: []db.Predicate{db.NumericRange("price", nil, nil)}}, "*"},
		{
			"combined",
			db.Query{
				Filters:   []db.Predicate{db.TagAnyOf("category", "Patent"), db.NumericAbove("stock", 0)},
				Text:      "cold",
				TextField: "search_text",
			},
			`@category:{Patent} @stock:[(0 +inf] @search_text:(cold)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(&tt.q); got != tt.want {
				t.Errorf("buildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeQuery(t *testing.T) {
	input := `hello "world" @user {tag}`
	escaped := escapeQuery(input)
	expected := `hello \"world\" \@user \{tag\}`
	if escaped != expected {
		t.Errorf("expected %q, got %q", expected, escaped)
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
