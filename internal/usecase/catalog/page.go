package catalog

import (
	"strconv"

	"github.com/abhichtrvd/1goli-sub001/internal/domain/catalog/item"
)

// Page is one page of enriched items.
type Page struct {
	Items []item.Enriched
	// Done is true when no items follow this page.
	Done bool
	// NextCursor continues the sequence; empty when Done.
	NextCursor string
}

// offsetSlice cuts [offset, offset+size) out of items.
func offsetSlice(items []item.Item, offset, size int) (page []item.Item, done bool, next string) {
	total := len(items)
	start := min(offset, total)
	end := min(offset+size, total)
	done = offset+size >= total
	if !done {
		next = strconv.Itoa(offset + size)
	}
	return items[start:end], done, next
}
