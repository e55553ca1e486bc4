package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/simplemediator-go/internal/application/common"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"github.com/andrescamacho/simplemediator-go/internal/domain/shared"
	"go.uber.org/zap"
)

// AddItemCommand appends a new item to the catalog
type AddItemCommand struct {
	mediator.Returns[*AddItemResponse]
	Name string `json:"name" validate:"required,max=64"`
}

// AddItemResponse describes the stored item
type AddItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// AddItemHandler handles the AddItem command
type AddItemHandler struct {
	itemRepo  item.ItemRepository
	clock     shared.Clock
	validator *common.Validator
}

// NewAddItemHandler creates a new AddItemHandler
func NewAddItemHandler(itemRepo item.ItemRepository, clock shared.Clock) *AddItemHandler {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &AddItemHandler{
		itemRepo:  itemRepo,
		clock:     clock,
		validator: common.NewValidator(),
	}
}

// Handle executes the AddItem command
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) (*AddItemResponse, error) {
	if err := h.validator.Validate(cmd); err != nil {
		return nil, err
	}

	it, err := item.NewItemAt(cmd.Name, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.itemRepo.Add(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	common.LoggerFromContext(ctx).Info("item added",
		zap.String("item_id", it.ID().String()),
		zap.String("name", it.Name()),
		zap.Int("position", it.Position()),
	)

	return &AddItemResponse{
		ID:        it.ID().String(),
		Name:      it.Name(),
		Position:  it.Position(),
		CreatedAt: it.CreatedAt(),
	}, nil
}
