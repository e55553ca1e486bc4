package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/simplemediator-go/internal/application/items"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/commands"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/database"
)

// CatalogContext holds state for item catalog scenarios
type CatalogContext struct {
	db         *gorm.DB
	repo       item.ItemRepository
	dispatcher *mediator.Dispatcher
	addErr     error
}

func InitializeCatalogScenario(ctx *godog.ScenarioContext) {
	c := &CatalogContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		return ctx, c.reset()
	})

	// Given steps
	ctx.Step(`^a "([^"]*)" item store seeded with the default catalog$`, c.aSeededItemStore)

	// When steps
	ctx.Step(`^I add the items:$`, c.iAddTheItems)
	ctx.Step(`^I add an item named "([^"]*)"$`, c.iAddAnItemNamed)

	// Then steps
	ctx.Step(`^the catalog should list:$`, c.theCatalogShouldList)
	ctx.Step(`^adding should fail with "([^"]*)"$`, c.addingShouldFailWith)
	ctx.Step(`^the catalog should hold (\d+) items$`, c.theCatalogShouldHoldItems)
}

func (c *CatalogContext) reset() error {
	var err error
	if c.dispatcher != nil {
		err = c.dispatcher.Close()
	}
	if c.db != nil {
		if closeErr := database.Close(c.db); err == nil {
			err = closeErr
		}
	}
	c.db = nil
	c.repo = nil
	c.dispatcher = nil
	c.addErr = nil
	return err
}

// ============================================================================
// Given Steps
// ============================================================================

func (c *CatalogContext) aSeededItemStore(store string) error {
	switch store {
	case "memory":
		c.repo = persistence.NewMemoryItemRepository()
	case "sqlite":
		db, err := database.NewTestConnection()
		if err != nil {
			return err
		}
		c.db = db
		c.repo = persistence.NewGormItemRepository(db)
	default:
		return fmt.Errorf("unknown store %q", store)
	}

	if err := persistence.SeedCatalog(context.Background(), c.repo, item.DefaultCatalog); err != nil {
		return err
	}

	reg := mediator.NewRegistry(mediator.LifetimeScoped)
	if err := reg.Discover(items.Handlers(c.repo, nil)...); err != nil {
		return err
	}
	c.dispatcher = mediator.NewDispatcher(reg)
	return nil
}

// ============================================================================
// When Steps
// ============================================================================

func (c *CatalogContext) iAddTheItems(table *godog.Table) error {
	names, err := columnValues(table, "name")
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := mediator.Send(context.Background(), c.dispatcher, commands.AddItemCommand{Name: name}); err != nil {
			return fmt.Errorf("failed to add %q: %w", name, err)
		}
	}
	return nil
}

func (c *CatalogContext) iAddAnItemNamed(name string) error {
	_, c.addErr = mediator.Send(context.Background(), c.dispatcher, commands.AddItemCommand{Name: name})
	return nil
}

// ============================================================================
// Then Steps
// ============================================================================

func (c *CatalogContext) theCatalogShouldList(table *godog.Table) error {
	rows, err := dataRows(table)
	if err != nil {
		return err
	}

	stored, err := c.repo.List(context.Background())
	if err != nil {
		return err
	}
	if len(stored) != len(rows) {
		return fmt.Errorf("expected %d items, got %d (%v)", len(rows), len(stored), item.Names(stored))
	}

	for i, row := range rows {
		name := getCellValue(table, row, "name")
		position, err := strconv.Atoi(getCellValue(table, row, "position"))
		if err != nil {
			return fmt.Errorf("invalid position in row %d: %w", i+1, err)
		}
		if stored[i].Name() != name || stored[i].Position() != position {
			return fmt.Errorf("row %d: expected %s at %d, got %s at %d",
				i+1, name, position, stored[i].Name(), stored[i].Position())
		}
	}
	return nil
}

func (c *CatalogContext) addingShouldFailWith(message string) error {
	if c.addErr == nil {
		return fmt.Errorf("expected adding to fail with %q, but it succeeded", message)
	}
	if !strings.Contains(c.addErr.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, c.addErr.Error())
	}
	return nil
}

func (c *CatalogContext) theCatalogShouldHoldItems(expected int) error {
	stored, err := c.repo.List(context.Background())
	if err != nil {
		return err
	}
	if len(stored) != expected {
		return fmt.Errorf("expected %d items, got %d", expected, len(stored))
	}
	return nil
}
