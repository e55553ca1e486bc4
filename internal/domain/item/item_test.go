package item_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
)

func TestNewItem_TrimsName(t *testing.T) {
	it, err := item.NewItem("  Item4 ")

	require.NoError(t, err)
	assert.Equal(t, "Item4", it.Name())
	assert.False(t, it.ID().IsZero())
	assert.False(t, it.CreatedAt().IsZero())
	assert.Equal(t, 0, it.Position())
}

func TestNewItem_RejectsInvalidNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"too long", strings.Repeat("x", item.MaxNameLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := item.NewItem(tt.input)
			assert.ErrorIs(t, err, item.ErrInvalidItemName)
		})
	}
}

func TestNewItem_AcceptsMaxLength(t *testing.T) {
	_, err := item.NewItem(strings.Repeat("é", item.MaxNameLength))

	assert.NoError(t, err)
}

func TestNewItemIDFromString(t *testing.T) {
	id := item.NewItemID()

	parsed, err := item.NewItemIDFromString(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = item.NewItemIDFromString("")
	assert.Error(t, err)
	_, err = item.NewItemIDFromString("not-a-uuid")
	assert.Error(t, err)
}

func TestItemExistsError(t *testing.T) {
	err := &item.ItemExistsError{Name: "Item1"}

	assert.ErrorIs(t, err, item.ErrItemExists)
	assert.Equal(t, "item already exists: Item1", err.Error())
}

func TestNames(t *testing.T) {
	a, _ := item.NewItem("a")
	b, _ := item.NewItem("b")

	assert.Equal(t, []string{"a", "b"}, item.Names([]*item.Item{a, b}))
	assert.Empty(t, item.Names(nil))
}
