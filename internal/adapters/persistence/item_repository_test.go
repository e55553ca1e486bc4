package persistence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"github.com/andrescamacho/simplemediator-go/test/helpers"
)

// repositories runs each case against both implementations
func repositories(t *testing.T) map[string]item.ItemRepository {
	return map[string]item.ItemRepository{
		"gorm":   persistence.NewGormItemRepository(helpers.NewTestDB(t)),
		"memory": persistence.NewMemoryItemRepository(),
	}
}

func TestItemRepository_AddAndList(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			first, err := item.NewItem("Alpha")
			require.NoError(t, err)
			second, err := item.NewItem("Beta")
			require.NoError(t, err)

			// Act
			require.NoError(t, repo.Add(ctx, first))
			require.NoError(t, repo.Add(ctx, second))
			items, err := repo.List(ctx)

			// Assert
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, []string{"Alpha", "Beta"}, item.Names(items))
			assert.Equal(t, 1, items[0].Position())
			assert.Equal(t, 2, items[1].Position())
			assert.Equal(t, first.ID(), items[0].ID())
		})
	}
}

func TestItemRepository_DuplicateName(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			original, _ := item.NewItem("Alpha")
			duplicate, _ := item.NewItem("Alpha")
			require.NoError(t, repo.Add(ctx, original))

			// Act
			err := repo.Add(ctx, duplicate)

			// Assert
			assert.ErrorIs(t, err, item.ErrItemExists)
			items, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, items, 1)
		})
	}
}

func TestSeedCatalog(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()

			// Act
			require.NoError(t, persistence.SeedCatalog(ctx, repo, item.DefaultCatalog))
			require.NoError(t, persistence.SeedCatalog(ctx, repo, []string{"Other"}))

			// Assert
			items, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Item1", "Item2", "Item3"}, item.Names(items))
		})
	}
}

func TestSeedCatalog_InvalidName(t *testing.T) {
	err := persistence.SeedCatalog(context.Background(), persistence.NewMemoryItemRepository(), []string{" "})

	assert.ErrorIs(t, err, item.ErrInvalidItemName)
}

func TestMemoryItemRepository_ConcurrentAdds(t *testing.T) {
	// Arrange
	repo := persistence.NewMemoryItemRepository()
	ctx := context.Background()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	// Act
	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			it, _ := item.NewItem(n)
			assert.NoError(t, repo.Add(ctx, it))
		}(n)
	}
	wg.Wait()

	// Assert
	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(names))
	for i, it := range items {
		assert.Equal(t, i+1, it.Position())
	}
}

func TestMemoryItemRepository_CancelledContext(t *testing.T) {
	repo := persistence.NewMemoryItemRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
