package persistence

import (
	"context"
	"sync"

	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
)

// MemoryItemRepository implements ItemRepository in process memory
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items []*item.Item
}

// NewMemoryItemRepository creates an empty in-memory repository
func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{}
}

// List returns a copy of the catalog in position order
func (r *MemoryItemRepository) List(ctx context.Context) ([]*item.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*item.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

// Add appends the item at the end of the catalog
func (r *MemoryItemRepository) Add(ctx context.Context, it *item.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Name() == it.Name() {
			return &item.ItemExistsError{Name: it.Name()}
		}
	}
	it.PlaceAt(len(r.items) + 1)
	r.items = append(r.items, it)
	return nil
}
