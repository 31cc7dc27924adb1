// Package catalog is an in-process Go client for the catalog query engine,
// backed by Redis with the search module or by an in-memory store.
//
//	client, _ := catalog.New(ctx, catalog.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	page, _ := client.Browse(ctx, catalog.BrowseRequest{
//	    Filter:   catalog.Filter{Category: "Cosmetics", InStockOnly: true},
//	    Sort:     catalog.SortPriceAsc,
//	    PageSize: 20,
//	})
//	for !page.Done {
//	    page, _ = client.Browse(ctx, catalog.BrowseRequest{Cursor: page.NextCursor, PageSize: 20})
//	}
//
// Cursors are opaque. Pass NextCursor back unchanged together with the same
// filter and sort that produced it.
package catalog
