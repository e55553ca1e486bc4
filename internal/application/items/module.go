// Package items registers the item catalog handlers with the mediator
package items

import (
	"github.com/andrescamacho/simplemediator-go/internal/application/items/commands"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/queries"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"github.com/andrescamacho/simplemediator-go/internal/domain/shared"
)

// Handlers returns the descriptors of every item handler, for Registry.Discover
func Handlers(itemRepo item.ItemRepository, clock shared.Clock) []mediator.Descriptor {
	return []mediator.Descriptor{
		mediator.Describe("ListItemsHandler",
			mediator.Handles(func() (mediator.Handler[queries.ListItemsQuery, []string], error) {
				return queries.NewListItemsHandler(itemRepo), nil
			}),
		),
		mediator.Describe("AddItemHandler",
			mediator.Handles(func() (mediator.Handler[commands.AddItemCommand, *commands.AddItemResponse], error) {
				return commands.NewAddItemHandler(itemRepo, clock), nil
			}),
		),
	}
}
