package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/simplemediator-go/internal/application/common"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"go.uber.org/zap"
)

// ListItemsQuery requests the names of every catalog item, in catalog order
type ListItemsQuery struct {
	mediator.Returns[[]string]
}

// ListItemsHandler handles the ListItems query
type ListItemsHandler struct {
	itemRepo item.ItemRepository
}

// NewListItemsHandler creates a new ListItemsHandler
func NewListItemsHandler(itemRepo item.ItemRepository) *ListItemsHandler {
	return &ListItemsHandler{
		itemRepo: itemRepo,
	}
}

// Handle executes the ListItems query
func (h *ListItemsHandler) Handle(ctx context.Context, _ ListItemsQuery) ([]string, error) {
	items, err := h.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	common.LoggerFromContext(ctx).Debug("items listed", zap.Int("count", len(items)))
	return item.Names(items), nil
}
