package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
)

// Search runs a filtered, optionally sorted or text-matched FT.SEARCH.
// Without SortBy, text results keep the engine's relevance order. A ThenBy
// tie-break needs a second sort key, which is served by sortedByTwo.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	if q.Limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if q.SortBy != "" && q.ThenBy != "" {
		return s.sortedByTwo(ctx, q)
	}

	args := []string{q.IndexName, buildQuery(q)}

	if q.SortBy != "" {
		args = append(args, "SORTBY", q.SortBy, direction(q.SortDesc))
	}

	args = append(args, "LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit))

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// sortedByTwo orders the page with FT.AGGREGATE, which accepts several sort keys,
// then loads the hashes of the returned keys in one pipeline.
func (s *Store) sortedByTwo(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(
		q.IndexName, buildQuery(q),
		"LOAD", "1", "@__key",
		"SORTBY", "4", "@"+q.SortBy, direction(q.SortDesc), "@"+q.ThenBy, direction(q.ThenDesc),
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	keys := make([]string, 0, len(raw))
	for _, row := range raw[min(1, len(raw)):] {
		pairs, err := row.ToArray()
		if err != nil {
			continue
		}
		if k := parseFieldPairs(pairs)["__key"]; k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return &db.SearchResult{Total: q.Offset}, nil
	}

	cmds := make(rueidis.Commands, len(keys))
	for i, k := range keys {
		cmds[i] = s.b().Hgetall().Key(k).Build()
	}
	entries := make([]db.SearchEntry, 0, len(keys))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		fields, err := res.AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Key: keys[i], Err: err}
		}
		// Deleted between the two round-trips.
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, db.SearchEntry{Key: keys[i], Fields: fields})
	}
	return &db.SearchResult{Total: q.Offset + len(entries), Entries: entries}, nil
}

func direction(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

// SearchCount returns the matching document count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, q *db.Query) (int, error) {
	if err := validateQuery(q); err != nil {
		return 0, err
	}
	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(q.IndexName, buildQuery(q), "LIMIT", "0", "0", "DIALECT", "2").
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

func validateQuery(q *db.Query) error {
	if q.IndexName == "" {
		return errors.New("index name is required")
	}
	if q.Offset < 0 {
		return errors.New("offset must be non-negative")
	}
	if q.Text != "" && q.TextField == "" {
		return errors.New("text field is required for a text query")
	}
	return nil
}

// --- Result parsing ---

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

// buildQuery translates predicates and the text clause into an FT.SEARCH query string.
func buildQuery(q *db.Query) string {
	parts := make([]string, 0, len(q.Filters)+1)
	for _, p := range q.Filters {
		if c := buildPredicate(p); c != "" {
			parts = append(parts, c)
		}
	}
	if terms := strings.Fields(q.Text); len(terms) > 0 {
		escaped := make([]string, len(terms))
		for i, t := range terms {
			escaped[i] = escapeQuery(t)
		}
		parts = append(parts, fmt.Sprintf("@%s:(%s)", q.TextField, strings.Join(escaped, " ")))
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func buildPredicate(p db.Predicate) string {
	if p.IsTag() {
		return buildTagFilter(p.Field, p.Tags)
	}
	if p.Min == nil && p.Max == nil {
		return ""
	}
	return buildNumericFilter(p)
}

func buildTagFilter(key string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, " | "))
}

func buildNumericFilter(p db.Predicate) string {
	minBound := "-inf"
	maxBound := "+inf"

	if p.Min != nil {
		minBound = strconv.FormatFloat(*p.Min, 'g', -1, 64)
		if p.MinExclusive {
			minBound = "(" + minBound
		}
	}
	if p.Max != nil {
		maxBound = strconv.FormatFloat(*p.Max, 'g', -1, 64)
	}

	return fmt.Sprintf("@%s:[%s %s]", p.Field, minBound, maxBound)
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`,`, `\,`,
	`.`, `\.`,
)
