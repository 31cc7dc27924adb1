package chi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/cursor"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/filter"
	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/sortspec"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("param")
	})
	return v
}

// filterParams are the query parameters shared by every catalog route.
type filterParams struct {
	Brand       *string   `param:"brand" validate:"omitempty,max=128"`
	Brands      *[]string `param:"brands" validate:"omitempty,max=32,dive,max=128"`
	Category    *string   `param:"category" validate:"omitempty,max=128"`
	MinPrice    *float64  `param:"min_price" validate:"omitempty,gte=0"`
	MaxPrice    *float64  `param:"max_price" validate:"omitempty,gte=0"`
	Forms       *[]string `param:"forms" validate:"omitempty,max=32,dive,max=128"`
	Potencies   *[]string `param:"potencies" validate:"omitempty,max=32,dive,max=128"`
	SymptomTags *[]string `param:"symptom_tags" validate:"omitempty,max=32,dive,max=128"`
	InStock     *bool     `param:"in_stock"`
}

// listParams are the GET /catalog/items query parameters.
type listParams struct {
	filterParams
	Sort     *string `param:"sort" validate:"omitempty,max=32"`
	Cursor   *string `param:"cursor" validate:"omitempty,max=512"`
	PageSize *int    `param:"page_size" validate:"omitempty,min=1"`
	Q        *string `param:"q" validate:"omitempty,max=256"`
}

// searchParams are the GET /catalog/search query parameters.
type searchParams struct {
	filterParams
	Sort *string `param:"sort" validate:"omitempty,max=32"`
	Q    *string `param:"q" validate:"omitempty,max=256"`
}

func bindFilterParams(r *http.Request, p *filterParams) error {
	q := r.URL.Query()
	binds := []struct {
		name string
		dest any
	}{
		{"brand", &p.Brand},
		{"brands", &p.Brands},
		{"category", &p.Category},
		{"min_price", &p.MinPrice},
		{"max_price", &p.MaxPrice},
		{"forms", &p.Forms},
		{"potencies", &p.Potencies},
		{"symptom_tags", &p.SymptomTags},
		{"in_stock", &p.InStock},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return domain.NewFieldError(b.name, "invalid format: "+err.Error())
		}
	}
	return nil
}

func bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return domain.NewFieldError(name, "invalid format: "+err.Error())
	}
	return nil
}

func bindListParams(r *http.Request) (listParams, error) {
	var p listParams
	if err := bindFilterParams(r, &p.filterParams); err != nil {
		return p, err
	}
	if err := bindQuery(r, "sort", &p.Sort); err != nil {
		return p, err
	}
	if err := bindQuery(r, "cursor", &p.Cursor); err != nil {
		return p, err
	}
	if err := bindQuery(r, "page_size", &p.PageSize); err != nil {
		return p, err
	}
	if err := bindQuery(r, "q", &p.Q); err != nil {
		return p, err
	}
	return p, nil
}

func bindSearchParams(r *http.Request) (searchParams, error) {
	var p searchParams
	if err := bindFilterParams(r, &p.filterParams); err != nil {
		return p, err
	}
	if err := bindQuery(r, "sort", &p.Sort); err != nil {
		return p, err
	}
	if err := bindQuery(r, "q", &p.Q); err != nil {
		return p, err
	}
	return p, nil
}

// validationError converts validator output into a field error naming the
// first offending query parameter.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	fe := verrs[0]
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	reason := "failed " + fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	return domain.NewFieldError(name, reason)
}

func (p *filterParams) toFilter(priceCeiling float64) (filter.Set, error) {
	return filter.New(filter.Params{
		Brand:       deref(p.Brand),
		Brands:      derefSlice(p.Brands),
		Category:    deref(p.Category),
		MinPrice:    p.MinPrice,
		MaxPrice:    p.MaxPrice,
		Forms:       derefSlice(p.Forms),
		Potencies:   derefSlice(p.Potencies),
		SymptomTags: derefSlice(p.SymptomTags),
		InStockOnly: deref(p.InStock),
	}, priceCeiling)
}

func parseSort(raw *string) (sortspec.Sort, error) {
	return sortspec.Parse(deref(raw))
}

func parseCursor(raw *string) (cursor.Cursor, error) {
	return cursor.Parse(deref(raw))
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func derefSlice(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}
