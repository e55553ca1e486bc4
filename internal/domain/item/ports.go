package item

import "context"

// ItemRepository defines persistence operations for catalog items
type ItemRepository interface {
	// List returns every item ordered by position
	List(ctx context.Context) ([]*Item, error)

	// Add appends an item at the end of the catalog.
	// A name already present fails with ErrItemExists.
	Add(ctx context.Context, item *Item) error
}

// Names returns the names of items in order
func Names(items []*Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name()
	}
	return names
}
