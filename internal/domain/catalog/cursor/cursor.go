package cursor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
)

// IndexPrefix marks an index-native token so it never parses as an offset.
const IndexPrefix = "ix."

// Kind tags the cursor variant.
type Kind int

// Cursor kinds.
const (
	KindNone Kind = iota
	KindOffset
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindOffset:
		return "offset"
	case KindIndex:
		return "index"
	default:
		return "none"
	}
}

// Cursor is a pagination position: none, an offset into a materialized result,
// or an opaque record store token. The two non-empty kinds are never converted.
type Cursor struct {
	kind   Kind
	offset int
	token  string
}

// None is the start of a result set.
func None() Cursor { return Cursor{} }

// Offset creates an offset cursor. Panics on a negative offset.
func Offset(n int) Cursor {
	if n < 0 {
		panic(fmt.Sprintf("cursor: negative offset %d", n))
	}
	return Cursor{kind: KindOffset, offset: n}
}

// Index wraps a store-provided token.
func Index(token string) Cursor {
	return Cursor{kind: KindIndex, token: token}
}

// Parse decodes a wire cursor. "" is None; a decimal is an offset; an IndexPrefix
// token is an index cursor. Anything else is ErrInvalidCursor.
func Parse(raw string) (Cursor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return None(), nil
	}
	if tok, ok := strings.CutPrefix(raw, IndexPrefix); ok {
		if tok == "" {
			return Cursor{}, fmt.Errorf("%w: empty index token", domain.ErrInvalidCursor)
		}
		return Index(tok), nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return Cursor{}, fmt.Errorf("%w: %q", domain.ErrInvalidCursor, raw)
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %q", domain.ErrInvalidCursor, raw)
	}
	return Offset(n), nil
}

// Kind returns the cursor variant.
func (c Cursor) Kind() Kind { return c.kind }

// IsNone reports whether c is the start position.
func (c Cursor) IsNone() bool { return c.kind == KindNone }

// OffsetValue returns the offset; 0 unless Kind is KindOffset.
func (c Cursor) OffsetValue() int { return c.offset }

// Token returns the store token without IndexPrefix; empty unless Kind is KindIndex.
func (c Cursor) Token() string { return c.token }

// String encodes the cursor for the wire.
func (c Cursor) String() string {
	switch c.kind {
	case KindOffset:
		return strconv.Itoa(c.offset)
	case KindIndex:
		return IndexPrefix + c.token
	default:
		return ""
	}
}
