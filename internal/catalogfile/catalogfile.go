// Package catalogfile reads catalog seed files.
//
// A seed file is a JSON object with an "items" array and an optional "media"
// map from media reference to URL.
package catalogfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
)

// idNamespace scopes ids minted for records without one.
var idNamespace = uuid.MustParse("6f1c1d52-8a43-4c1e-9a55-0c3f2b7d9e10")

// Record is one item as written in a seed file.
type Record struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Brand       string     `json:"brand"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	Forms       []string   `json:"forms"`
	Potencies   []string   `json:"potencies"`
	SymptomTags []string   `json:"symptom_tags"`
	Rating      *float64   `json:"rating"`
	RatingCount *int       `json:"rating_count"`
	Reviews     *Reviews   `json:"reviews"`
	ImageRef    string     `json:"image_ref"`
	Images      []string   `json:"images"`
	ImageURL    string     `json:"image_url"`
	CreatedAt   *time.Time `json:"created_at"`
}

// Reviews is a review aggregate.
type Reviews struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// File is a parsed seed file.
type File struct {
	Items []item.Item
	Media map[string]string
}

type rawFile struct {
	Items []Record          `json:"items"`
	Media map[string]string `json:"media"`
}

// Load reads and parses the seed file at path.
func Load(path string, now time.Time) (File, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return File{}, fmt.Errorf("open catalog file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f, now)
}

// Parse decodes a seed file. Records without an id get one derived from
// name, brand and category, so re-seeding is idempotent. Records without a
// creation time are stamped one second apart before now, in file order,
// so the first record is the newest.
func Parse(r io.Reader, now time.Time) (File, error) {
	var raw rawFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return File{}, fmt.Errorf("decode catalog file: %w", err)
	}

	out := File{Items: make([]item.Item, 0, len(raw.Items)), Media: raw.Media}
	seen := make(map[string]int, len(raw.Items))
	var errs []error
	for i := range raw.Items {
		rec := &raw.Items[i]
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = MintID(rec.Name, rec.Brand, rec.Category)
		}
		if prev, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("record %d: duplicate id %q (first at %d)", i, id, prev))
			continue
		}
		seen[id] = i

		created := now.Add(-time.Duration(i) * time.Second)
		if rec.CreatedAt != nil {
			created = *rec.CreatedAt
		}
		it, err := item.New(id, rec.attributes(created))
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		out.Items = append(out.Items, it)
	}
	if err := errors.Join(errs...); err != nil {
		return File{}, err
	}
	return out, nil
}

// MintID derives a stable id from an item's identifying fields.
func MintID(name, brand, category string) string {
	key := strings.ToLower(strings.Join([]string{name, brand, category}, "\x00"))
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

func (r *Record) attributes(created time.Time) item.Attributes {
	a := item.Attributes{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Brand:       strings.TrimSpace(r.Brand),
		Category:    strings.TrimSpace(r.Category),
		BasePrice:   r.Price,
		Stock:       r.Stock,
		Forms:       r.Forms,
		Potencies:   r.Potencies,
		SymptomTags: r.SymptomTags,
		Media: item.Media{
			PrimaryRef: r.ImageRef,
			Gallery:    r.Images,
			PlainURL:   r.ImageURL,
		},
		CreatedAt: created,
	}
	if r.RatingCount != nil {
		a.HasRating = true
		a.RatingCount = *r.RatingCount
		if r.Rating != nil {
			a.AverageRating = *r.Rating
		}
	}
	if r.Reviews != nil {
		a.Reviews = &item.ReviewStats{Count: r.Reviews.Count, Total: r.Reviews.Total}
	}
	return a
}
