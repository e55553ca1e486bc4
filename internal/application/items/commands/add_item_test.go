package commands_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/simplemediator-go/internal/application/common"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/commands"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"github.com/andrescamacho/simplemediator-go/internal/domain/shared"
)

func TestAddItem_AppendsToCatalog(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewMemoryItemRepository()
	require.NoError(t, persistence.SeedCatalog(ctx, repo, item.DefaultCatalog))
	clock := shared.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	handler := commands.NewAddItemHandler(repo, clock)

	// Act
	resp, err := handler.Handle(ctx, commands.AddItemCommand{Name: " Item4 "})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Item4", resp.Name)
	assert.Equal(t, 4, resp.Position)
	assert.Equal(t, clock.Now(), resp.CreatedAt)
	_, err = item.NewItemIDFromString(resp.ID)
	assert.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Item1", "Item2", "Item3", "Item4"}, item.Names(items))
}

func TestAddItem_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing name", "", common.ErrValidation},
		{"name too long", strings.Repeat("x", 65), common.ErrValidation},
		{"blank name", "   ", item.ErrInvalidItemName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := commands.NewAddItemHandler(persistence.NewMemoryItemRepository(), nil)

			_, err := handler.Handle(context.Background(), commands.AddItemCommand{Name: tt.input})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddItem_DuplicateName(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewMemoryItemRepository()
	require.NoError(t, persistence.SeedCatalog(ctx, repo, item.DefaultCatalog))
	handler := commands.NewAddItemHandler(repo, nil)

	// Act
	_, err := handler.Handle(ctx, commands.AddItemCommand{Name: "Item2"})

	// Assert
	assert.ErrorIs(t, err, item.ErrItemExists)
}
