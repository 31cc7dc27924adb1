package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
)

// MaxValuesPerSet is the maximum number of values in a multi-valued filter.
const MaxValuesPerSet = 32

// categoryAliases lists category names that match each other.
var categoryAliases = map[string][]string{
	"Cosmetics":     {"Cosmetics", "Personal Care"},
	"Personal Care": {"Personal Care", "Cosmetics"},
}

// Params is the raw, caller-supplied filter input. All fields are optional.
type Params struct {
	Brand       string   // legacy single brand
	Brands      []string // multi-brand, equality-in-set
	Category    string
	MinPrice    *float64
	MaxPrice    *float64
	Forms       []string
	Potencies   []string
	SymptomTags []string
	InStockOnly bool
}

// Set is a validated, request-scoped filter set.
type Set struct {
	brands      []string
	category    string
	minPrice    float64
	maxPrice    *float64
	forms       []string
	potencies   []string
	symptomTags []string
	inStockOnly bool
}

// New validates and normalizes filter params.
// The legacy brand is folded into the brand set. A max price at or above priceCeiling
// is the slider's "no limit" position and is dropped; priceCeiling <= 0 disables that rule.
func New(p Params, priceCeiling float64) (Set, error) {
	var s Set

	brands := p.Brands
	if b := strings.TrimSpace(p.Brand); b != "" {
		brands = append([]string{b}, brands...)
	}
	var err error
	if s.brands, err = normalizeValues("brands", brands); err != nil {
		return Set{}, err
	}
	if s.forms, err = normalizeValues("forms", p.Forms); err != nil {
		return Set{}, err
	}
	if s.potencies, err = normalizeValues("potencies", p.Potencies); err != nil {
		return Set{}, err
	}
	if s.symptomTags, err = normalizeValues("symptom_tags", p.SymptomTags); err != nil {
		return Set{}, err
	}
	s.category = strings.TrimSpace(p.Category)

	if p.MinPrice != nil {
		if !isFinite(*p.MinPrice) || *p.MinPrice < 0 {
			return Set{}, domain.NewFieldError("min_price", "must be a non-negative number")
		}
		s.minPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		if !isFinite(*p.MaxPrice) || *p.MaxPrice < 0 {
			return Set{}, domain.NewFieldError("max_price", "must be a non-negative number")
		}
		if priceCeiling <= 0 || *p.MaxPrice < priceCeiling {
			m := *p.MaxPrice
			s.maxPrice = &m
		}
	}
	if s.maxPrice != nil && s.minPrice > *s.maxPrice {
		return Set{}, domain.NewFieldError("min_price", fmt.Sprintf("must not exceed max_price %g", *s.maxPrice))
	}
	s.inStockOnly = p.InStockOnly
	return s, nil
}

// Brands returns the brand set (legacy brand first when supplied).
func (s Set) Brands() []string { return s.brands }

// Category returns the requested category, empty when unconstrained.
func (s Set) Category() string { return s.category }

// Categories returns the requested category expanded with its aliases.
func (s Set) Categories() []string {
	if s.category == "" {
		return nil
	}
	if aliases, ok := categoryAliases[s.category]; ok {
		return aliases
	}
	return []string{s.category}
}

// MinPrice returns the lower price bound (0 when unconstrained).
func (s Set) MinPrice() float64 { return s.minPrice }

// MaxPrice returns the upper price bound, nil when unbounded.
func (s Set) MaxPrice() *float64 { return s.maxPrice }

// HasPriceRange reports whether any price bound is active.
func (s Set) HasPriceRange() bool { return s.minPrice > 0 || s.maxPrice != nil }

// Forms returns the requested forms.
func (s Set) Forms() []string { return s.forms }

// Potencies returns the requested potencies.
func (s Set) Potencies() []string { return s.potencies }

// SymptomTags returns the requested symptom tags.
func (s Set) SymptomTags() []string { return s.symptomTags }

// InStockOnly reports whether out-of-stock items are excluded.
func (s Set) InStockOnly() bool { return s.inStockOnly }

// HasArrayFilters reports whether any overlap filter is active.
func (s Set) HasArrayFilters() bool {
	return len(s.forms) > 0 || len(s.potencies) > 0 || len(s.symptomTags) > 0
}

// IsEmpty reports whether the set constrains nothing.
func (s Set) IsEmpty() bool {
	return len(s.brands) == 0 && s.category == "" && !s.HasPriceRange() &&
		!s.HasArrayFilters() && !s.inStockOnly
}

func normalizeValues(field string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) > MaxValuesPerSet {
		return nil, domain.NewFieldError(field, fmt.Sprintf("too many values (max %d)", MaxValuesPerSet))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
