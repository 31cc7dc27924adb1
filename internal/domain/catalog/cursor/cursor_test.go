package cursor

import (
	"errors"
	"testing"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		kind   Kind
		offset int
		token  string
	}{
		{"", KindNone, 0, ""},
		{"0", KindOffset, 0, ""},
		{"15", KindOffset, 15, ""},
		{" 20 ", KindOffset, 20, ""},
		{"ix.cHJpY2U6MToxMA", KindIndex, 0, "cHJpY2U6MToxMA"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Kind() != tt.kind {
				t.Errorf("Kind() = %s, want %s", c.Kind(), tt.kind)
			}
			if c.OffsetValue() != tt.offset {
				t.Errorf("OffsetValue() = %d, want %d", c.OffsetValue(), tt.offset)
			}
			if c.Token() != tt.token {
				t.Errorf("Token() = %q, want %q", c.Token(), tt.token)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"-5", "abc", "1.5", "ix.", "99999999999999999999999", "+3"} {
		t.Run(raw, func(t *testing.T) {
			if _, err := Parse(raw); !errors.Is(err, domain.ErrInvalidCursor) {
				t.Errorf("Parse(%q) err = %v, want ErrInvalidCursor", raw, err)
			}
		})
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, c := range []Cursor{None(), Offset(0), Offset(40), Index("abc")} {
		got, err := Parse(c.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.String(), err)
		}
		if got != c {
			t.Errorf("round trip %q: got %+v, want %+v", c.String(), got, c)
		}
	}
}

func TestShapesNeverCollide(t *testing.T) {
	// A digit-only store token still parses as an index cursor.
	c, err := Parse(Index("123").String())
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind() != KindIndex {
		t.Errorf("Kind() = %s, want index", c.Kind())
	}
}

func TestOffset_NegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Offset(-1)
}
