package item

// Enriched is a catalog item with its primary media reference resolved to a URL.
type Enriched struct {
	Item
	imageURL string
}

// NewEnriched attaches a resolved media URL to an item.
func NewEnriched(it Item, imageURL string) Enriched {
	return Enriched{Item: it, imageURL: imageURL}
}

// ImageURL returns the resolved media URL, or the fallback chosen at enrichment time.
func (e *Enriched) ImageURL() string { return e.imageURL }
