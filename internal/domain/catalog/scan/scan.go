package scan

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
)

// Scan is a single-index read with store-side predicates. Order is the index whose
// native order the results follow; the remaining fields narrow the range.
type Scan struct {
	Order sortspec.Index
	Desc  bool

	Brands      []string // equality-in-set on brand
	Categories  []string // equality-in-set on category (aliases already expanded)
	MinPrice    float64
	MaxPrice    *float64
	InStockOnly bool
}

// Collection is the default full-collection scan: newest first.
func Collection() Scan {
	return Scan{Order: sortspec.IndexCreation, Desc: true}
}

// Key is a canonical string identifying the scan range and order.
func (s Scan) Key() string {
	var b strings.Builder
	b.WriteString(string(s.Order))
	if s.Desc {
		b.WriteString(":desc")
	} else {
		b.WriteString(":asc")
	}
	if len(s.Brands) > 0 {
		b.WriteString("|b=" + strings.Join(s.Brands, ","))
	}
	if len(s.Categories) > 0 {
		b.WriteString("|c=" + strings.Join(s.Categories, ","))
	}
	if s.MinPrice > 0 {
		b.WriteString("|min=" + strconv.FormatFloat(s.MinPrice, 'g', -1, 64))
	}
	if s.MaxPrice != nil {
		b.WriteString("|max=" + strconv.FormatFloat(*s.MaxPrice, 'g', -1, 64))
	}
	if s.InStockOnly {
		b.WriteString("|stock")
	}
	return b.String()
}

// Page is one slice of an index scan.
type Page[T any] struct {
	Items []T
	Next  string // continuation token, empty when Done
	Done  bool
}

const tokenVersion = "v1"

// EncodeToken mints a continuation token bound to s at position pos.
func EncodeToken(s Scan, pos int) string {
	raw := fmt.Sprintf("%s:%08x:%d", tokenVersion, fingerprint(s), pos)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeToken returns the position in token. A token minted for another scan
// yields ErrCursorMismatch; a garbled one ErrInvalidCursor.
func DecodeToken(s Scan, token string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: undecodable index token", domain.ErrInvalidCursor)
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 || parts[0] != tokenVersion {
		return 0, fmt.Errorf("%w: malformed index token", domain.ErrInvalidCursor)
	}
	fp, err := strconv.ParseUint(parts[1], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed index token", domain.ErrInvalidCursor)
	}
	pos, err := strconv.Atoi(parts[2])
	if err != nil || pos < 0 {
		return 0, fmt.Errorf("%w: malformed index token", domain.ErrInvalidCursor)
	}
	if uint32(fp) != fingerprint(s) {
		return 0, domain.ErrCursorMismatch
	}
	return pos, nil
}

func fingerprint(s Scan) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s.Key()))
	return h.Sum32()
}
