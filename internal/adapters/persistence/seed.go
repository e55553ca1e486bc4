package persistence

import (
	"context"
	"fmt"

	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
)

// SeedCatalog adds names to an empty repository, in order. A repository that
// already holds items is left untouched.
func SeedCatalog(ctx context.Context, repo item.ItemRepository, names []string) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, name := range names {
		it, err := item.NewItem(name)
		if err != nil {
			return fmt.Errorf("invalid seed item %q: %w", name, err)
		}
		if err := repo.Add(ctx, it); err != nil {
			return fmt.Errorf("failed to seed item %q: %w", name, err)
		}
	}
	return nil
}
