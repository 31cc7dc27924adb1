package catalogfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	const doc = `{
  "items": [
    {"id": "arnica-30c", "name": "Arnica Montana", "brand": "Boiron", "category": "Homeopathy",
     "price": 149.5, "stock": 12, "forms": ["Pellets"], "potencies": ["30C"],
     "rating": 4.5, "rating_count": 8, "image_ref": "img/arnica", "images": ["img/a1", "img/a2"],
     "created_at": "2024-01-02T03:04:05Z"},
    {"name": "Calendula Cream", "brand": "SBL", "category": "Personal Care", "price": 220,
     "reviews": {"count": 2, "total": 9}, "image_url": "http://legacy/cream.jpg"}
  ],
  "media": {"img/arnica": "https://cdn.example.com/arnica.jpg"}
}`
	f, err := Parse(strings.NewReader(doc), now)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(f.Items))
	}

	arnica := f.Items[0]
	if arnica.ID() != "arnica-30c" || arnica.RatingCount() != 8 || arnica.AverageRating() != 4.5 {
		t.Errorf("arnica = %+v", arnica.Attributes())
	}
	if !arnica.CreatedAt().Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("created = %v", arnica.CreatedAt())
	}
	if diff := cmp.Diff([]string{"img/a1", "img/a2"}, arnica.Media().Gallery); diff != "" {
		t.Errorf("gallery (-want +got):\n%s", diff)
	}

	cream := f.Items[1]
	if cream.ID() != MintID("Calendula Cream", "SBL", "Personal Care") {
		t.Errorf("minted id = %q", cream.ID())
	}
	if cream.RatingCount() != 2 || cream.AverageRating() != 4.5 {
		t.Errorf("review-derived rating = %d/%v", cream.RatingCount(), cream.AverageRating())
	}
	if !cream.CreatedAt().Equal(now.Add(-time.Second)) {
		t.Errorf("stamped created = %v", cream.CreatedAt())
	}
	if f.Media["img/arnica"] != "https://cdn.example.com/arnica.jpg" {
		t.Errorf("media = %v", f.Media)
	}
}

func TestMintID_Stable(t *testing.T) {
	a := MintID("Arnica", "Boiron", "Homeopathy")
	if a != MintID("ARNICA", "boiron", "homeopathy") {
		t.Error("minted ids should ignore case")
	}
	if a == MintID("Arnica", "SBL", "Homeopathy") {
		t.Error("minted ids should differ by brand")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"malformed", `{"items": [`, "decode"},
		{"unknown field", `{"items": [{"name": "x", "colour": "red"}]}`, "unknown field"},
		{"missing name", `{"items": [{"id": "x"}]}`, "name is required"},
		{"negative price", `{"items": [{"id": "x", "name": "X", "price": -1}]}`, "non-negative"},
		{"duplicate id", `{"items": [{"id": "x", "name": "X"}, {"id": "x", "name": "Y"}]}`, "duplicate id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc), now)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"items": [{"id": "a", "name": "A"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path, now)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Items) != 1 || f.Items[0].ID() != "a" {
		t.Errorf("items = %v", f.Items)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), now); err == nil {
		t.Error("expected error for missing file")
	}
}
