package filter

import (
	"errors"
	"testing"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
)

func floatPtr(f float64) *float64 { return &f }

func mustItem(t *testing.T, id string, a item.Attributes) *item.Item {
	t.Helper()
	if a.Name == "" {
		a.Name = id
	}
	it, err := item.New(id, a)
	if err != nil {
		t.Fatalf("item.New(%q): %v", id, err)
	}
	return &it
}

func mustSet(t *testing.T, p Params) Set {
	t.Helper()
	s, err := New(p, 5000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// --- Construction ---

func TestNew_Invalid(t *testing.T) {
	tooMany := make([]string, MaxValuesPerSet+1)
	for i := range tooMany {
		tooMany[i] = string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"negative min", Params{MinPrice: floatPtr(-1)}, "min_price"},
		{"negative max", Params{MaxPrice: floatPtr(-0.5)}, "max_price"},
		{"min above max", Params{MinPrice: floatPtr(20), MaxPrice: floatPtr(10)}, "min_price"},
		{"too many forms", Params{Forms: tooMany}, "forms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p, 5000)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var fe *domain.FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("field = %v, want %q", err, tt.field)
			}
		})
	}
}

func TestNew_LegacyBrandFoldedIntoBrands(t *testing.T) {
	s := mustSet(t, Params{Brand: " Boiron ", Brands: []string{"SBL", "Boiron", ""}})
	got := s.Brands()
	if len(got) != 2 || got[0] != "Boiron" || got[1] != "SBL" {
		t.Errorf("Brands() = %v, want [Boiron SBL]", got)
	}
}

func TestNew_MaxAtCeilingIsUnbounded(t *testing.T) {
	s := mustSet(t, Params{MaxPrice: floatPtr(5000)})
	if s.MaxPrice() != nil {
		t.Errorf("MaxPrice() = %v, want nil", *s.MaxPrice())
	}
	if s.HasPriceRange() {
		t.Error("expected no price range")
	}

	s = mustSet(t, Params{MaxPrice: floatPtr(4999)})
	if s.MaxPrice() == nil || *s.MaxPrice() != 4999 {
		t.Errorf("MaxPrice() = %v, want 4999", s.MaxPrice())
	}
}

func TestNew_MinAboveCeilingWithSentinelMax(t *testing.T) {
	// The sentinel max drops out, so min alone is a valid bound.
	s := mustSet(t, Params{MinPrice: floatPtr(6000), MaxPrice: floatPtr(5000)})
	if s.MinPrice() != 6000 || s.MaxPrice() != nil {
		t.Errorf("min=%v max=%v", s.MinPrice(), s.MaxPrice())
	}
}

func TestSet_IsEmpty(t *testing.T) {
	if !mustSet(t, Params{}).IsEmpty() {
		t.Error("zero params should be empty")
	}
	if mustSet(t, Params{InStockOnly: true}).IsEmpty() {
		t.Error("inStockOnly should not be empty")
	}
}

// --- Evaluator ---

func TestMatches_CategoryAlias(t *testing.T) {
	cosmetic := mustItem(t, "a", item.Attributes{Category: "Cosmetics"})
	care := mustItem(t, "b", item.Attributes{Category: "Personal Care"})
	patent := mustItem(t, "c", item.Attributes{Category: "Patent"})

	for _, cat := range []string{"Cosmetics", "Personal Care"} {
		s := mustSet(t, Params{Category: cat})
		if !s.Matches(cosmetic) || !s.Matches(care) {
			t.Errorf("%s: expected both alias categories to match", cat)
		}
		if s.Matches(patent) {
			t.Errorf("%s: Patent should not match", cat)
		}
	}

	s := mustSet(t, Params{Category: "Patent"})
	if s.Matches(cosmetic) || !s.Matches(patent) {
		t.Error("non-aliased category should match by equality only")
	}
}

func TestMatches_Overlap(t *testing.T) {
	drops := mustItem(t, "a", item.Attributes{Forms: []string{"Drops"}})
	none := mustItem(t, "b", item.Attributes{})
	s := mustSet(t, Params{Forms: []string{"Drops", "Tablets"}})

	if !s.Matches(drops) {
		t.Error("Drops should overlap {Drops, Tablets}")
	}
	if s.Matches(none) {
		t.Error("empty forms should never match")
	}
}

func TestMatches_Table(t *testing.T) {
	it := mustItem(t, "x", item.Attributes{
		Brand:       "Boiron",
		Category:    "Homeopathy",
		BasePrice:   120,
		Stock:       0,
		Potencies:   []string{"30C"},
		SymptomTags: []string{"cold", "flu"},
	})
	tests := []struct {
		name string
		p    Params
		want bool
	}{
		{"no filters", Params{}, true},
		{"brand hit", Params{Brand: "Boiron"}, true},
		{"brands set hit", Params{Brands: []string{"SBL", "Boiron"}}, true},
		{"brand miss", Params{Brands: []string{"SBL"}}, false},
		{"min price inclusive", Params{MinPrice: floatPtr(120)}, true},
		{"max price inclusive", Params{MaxPrice: floatPtr(120)}, true},
		{"below max", Params{MaxPrice: floatPtr(119.99)}, false},
		{"max sentinel", Params{MaxPrice: floatPtr(5000)}, true},
		{"potency hit", Params{Potencies: []string{"30C", "200C"}}, true},
		{"symptom miss", Params{SymptomTags: []string{"headache"}}, false},
		{"forms on item without forms", Params{Forms: []string{"Drops"}}, false},
		{"in stock only", Params{InStockOnly: true}, false},
		{"anded", Params{Brand: "Boiron", Category: "Homeopathy", SymptomTags: []string{"flu"}}, true},
		{"anded one miss", Params{Brand: "Boiron", Category: "Patent"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustSet(t, tt.p).Matches(it); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatches_UnboundedMaxReturnsPricierItems(t *testing.T) {
	pricey := mustItem(t, "p", item.Attributes{BasePrice: 9000})

	if !mustSet(t, Params{MaxPrice: floatPtr(5000)}).Matches(pricey) {
		t.Error("sentinel max should not cap price")
	}
	if mustSet(t, Params{MaxPrice: floatPtr(1000)}).Matches(pricey) {
		t.Error("explicit max should exclude pricier item")
	}
}

func TestMatches_MissingBrandNeverMatches(t *testing.T) {
	it := mustItem(t, "x", item.Attributes{})
	if mustSet(t, Params{Brand: "Boiron"}).Matches(it) {
		t.Error("item without brand matched a brand filter")
	}
	if mustSet(t, Params{Category: "Cosmetics"}).Matches(it) {
		t.Error("item without category matched a category filter")
	}
}
