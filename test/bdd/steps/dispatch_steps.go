package steps

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/simplemediator-go/internal/application/items"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/queries"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
)

type echoRequest struct {
	mediator.Returns[string]
	Text string
}

type countRequest struct {
	mediator.Returns[int64]
}

type orphanRequest struct {
	mediator.Returns[bool]
}

type failingRequest struct {
	mediator.Returns[string]
}

var errHandlerExploded = errors.New("handler exploded")

// DispatchContext holds state for dispatch and discovery scenarios
type DispatchContext struct {
	registry   *mediator.Registry
	dispatcher *mediator.Dispatcher
	scopes     map[string]*mediator.Scope

	constructions atomic.Int64
	candidates    []mediator.Descriptor

	response    any
	dispatchErr error
	discoverErr error
}

func InitializeDispatchScenario(ctx *godog.ScenarioContext) {
	c := &DispatchContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		return ctx, c.close()
	})

	// Given steps
	ctx.Step(`^the item handlers are discovered with default lifetime "([^"]*)"$`, c.theItemHandlersAreDiscovered)
	ctx.Step(`^a failing handler is registered$`, c.aFailingHandlerIsRegistered)
	ctx.Step(`^a counting handler registered with lifetime "([^"]*)"$`, c.aCountingHandlerRegisteredWithLifetime)
	ctx.Step(`^the handler candidates:$`, c.theHandlerCandidates)

	// When steps
	ctx.Step(`^I send a list items query$`, c.iSendAListItemsQuery)
	ctx.Step(`^I send a request with no registered handler$`, c.iSendARequestWithNoRegisteredHandler)
	ctx.Step(`^I send the failing request$`, c.iSendTheFailingRequest)
	ctx.Step(`^I send the counting request (\d+) times in scope "([^"]*)"$`, c.iSendTheCountingRequestInScope)
	ctx.Step(`^handler discovery runs$`, c.handlerDiscoveryRuns)

	// Then steps
	ctx.Step(`^the response should be the names:$`, c.theResponseShouldBeTheNames)
	ctx.Step(`^the dispatch should fail with "([^"]*)"$`, c.theDispatchShouldFailWith)
	ctx.Step(`^the counting handler should have been constructed (\d+) times$`, c.theCountingHandlerShouldHaveBeenConstructed)
	ctx.Step(`^discovery should succeed$`, c.discoveryShouldSucceed)
	ctx.Step(`^discovery should fail with "([^"]*)"$`, c.discoveryShouldFailWith)
	ctx.Step(`^(\d+) bindings? should be registered$`, c.bindingsShouldBeRegistered)
	ctx.Step(`^"([^"]*)" should be handled by "([^"]*)"$`, c.shouldBeHandledBy)
}

func (c *DispatchContext) reset() {
	c.registry = nil
	c.dispatcher = nil
	c.scopes = map[string]*mediator.Scope{}
	c.constructions.Store(0)
	c.candidates = nil
	c.response = nil
	c.dispatchErr = nil
	c.discoverErr = nil
}

func (c *DispatchContext) close() error {
	for _, s := range c.scopes {
		_ = s.Close()
	}
	if c.dispatcher != nil {
		return c.dispatcher.Close()
	}
	return nil
}

// ============================================================================
// Given Steps
// ============================================================================

func (c *DispatchContext) theItemHandlersAreDiscovered(lifetime string) error {
	l, err := mediator.ParseLifetime(lifetime)
	if err != nil {
		return err
	}

	repo := persistence.NewMemoryItemRepository()
	if err := persistence.SeedCatalog(context.Background(), repo, item.DefaultCatalog); err != nil {
		return err
	}

	c.registry = mediator.NewRegistry(l)
	if err := c.registry.Discover(items.Handlers(repo, nil)...); err != nil {
		return err
	}
	c.dispatcher = mediator.NewDispatcher(c.registry)
	return nil
}

func (c *DispatchContext) aFailingHandlerIsRegistered() error {
	c.registry = mediator.NewRegistry(mediator.LifetimeTransient)
	err := mediator.Register(c.registry, "FailingHandler", mediator.LifetimeDefault,
		mediator.Instance[failingRequest, string](mediator.HandlerFunc[failingRequest, string](
			func(context.Context, failingRequest) (string, error) { return "", errHandlerExploded })))
	if err != nil {
		return err
	}
	c.dispatcher = mediator.NewDispatcher(c.registry)
	return nil
}

func (c *DispatchContext) aCountingHandlerRegisteredWithLifetime(lifetime string) error {
	l, err := mediator.ParseLifetime(lifetime)
	if err != nil {
		return err
	}

	c.registry = mediator.NewRegistry(mediator.LifetimeScoped)
	if err := mediator.Register(c.registry, "CountHandler", l, c.countFactory); err != nil {
		return err
	}
	c.dispatcher = mediator.NewDispatcher(c.registry)
	return nil
}

func (c *DispatchContext) theHandlerCandidates(table *godog.Table) error {
	rows, err := dataRows(table)
	if err != nil {
		return err
	}

	for _, row := range rows {
		name := getCellValue(table, row, "handler")

		var pairing mediator.Pairing
		switch request := getCellValue(table, row, "request"); request {
		case "echo":
			pairing = mediator.Handles(echoFactory)
		case "count":
			pairing = mediator.Handles(c.countFactory)
		default:
			return fmt.Errorf("unknown request kind %q", request)
		}

		d := mediator.Describe(name, pairing)
		if getCellValue(table, row, "abstract") == "true" {
			d = d.Abstract()
		}
		c.candidates = append(c.candidates, d)
	}
	return nil
}

// ============================================================================
// When Steps
// ============================================================================

func (c *DispatchContext) iSendAListItemsQuery() error {
	c.response, c.dispatchErr = mediator.Send(context.Background(), c.dispatcher, queries.ListItemsQuery{})
	return nil
}

func (c *DispatchContext) iSendARequestWithNoRegisteredHandler() error {
	c.response, c.dispatchErr = mediator.Send(context.Background(), c.dispatcher, orphanRequest{})
	return nil
}

func (c *DispatchContext) iSendTheFailingRequest() error {
	c.response, c.dispatchErr = mediator.Send(context.Background(), c.dispatcher, failingRequest{})
	return nil
}

func (c *DispatchContext) iSendTheCountingRequestInScope(times int, scopeName string) error {
	scope, ok := c.scopes[scopeName]
	if !ok {
		scope = mediator.NewScope()
		c.scopes[scopeName] = scope
	}

	ctx := mediator.WithScope(context.Background(), scope)
	for i := 0; i < times; i++ {
		if _, err := mediator.Send(ctx, c.dispatcher, countRequest{}); err != nil {
			return err
		}
	}
	return nil
}

func (c *DispatchContext) handlerDiscoveryRuns() error {
	c.registry = mediator.NewRegistry(mediator.LifetimeScoped)
	c.discoverErr = c.registry.Discover(c.candidates...)
	return nil
}

// ============================================================================
// Then Steps
// ============================================================================

func (c *DispatchContext) theResponseShouldBeTheNames(table *godog.Table) error {
	if c.dispatchErr != nil {
		return fmt.Errorf("expected a response, got error: %w", c.dispatchErr)
	}
	expected, err := columnValues(table, "name")
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(expected, c.response) {
		return fmt.Errorf("expected %v, got %v", expected, c.response)
	}
	return nil
}

func (c *DispatchContext) theDispatchShouldFailWith(message string) error {
	if c.dispatchErr == nil {
		return fmt.Errorf("expected dispatch to fail with %q, but it succeeded", message)
	}
	if !strings.Contains(c.dispatchErr.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, c.dispatchErr.Error())
	}
	return nil
}

func (c *DispatchContext) theCountingHandlerShouldHaveBeenConstructed(expected int) error {
	if got := c.constructions.Load(); got != int64(expected) {
		return fmt.Errorf("expected %d constructions, got %d", expected, got)
	}
	return nil
}

func (c *DispatchContext) discoveryShouldSucceed() error {
	if c.discoverErr != nil {
		return fmt.Errorf("expected discovery to succeed, got: %w", c.discoverErr)
	}
	return nil
}

func (c *DispatchContext) discoveryShouldFailWith(message string) error {
	if c.discoverErr == nil {
		return fmt.Errorf("expected discovery to fail with %q, but it succeeded", message)
	}
	if !errors.Is(c.discoverErr, mediator.ErrDuplicateBinding) {
		return fmt.Errorf("expected a duplicate binding error, got: %w", c.discoverErr)
	}
	if c.discoverErr.Error() != message {
		return fmt.Errorf("expected error %q, got %q", message, c.discoverErr.Error())
	}
	return nil
}

func (c *DispatchContext) bindingsShouldBeRegistered(expected int) error {
	if got := c.registry.Len(); got != expected {
		return fmt.Errorf("expected %d bindings, got %d", expected, got)
	}
	return nil
}

func (c *DispatchContext) shouldBeHandledBy(request, handler string) error {
	var requestType reflect.Type
	switch request {
	case "echo":
		requestType = reflect.TypeOf(echoRequest{})
	case "count":
		requestType = reflect.TypeOf(countRequest{})
	default:
		return fmt.Errorf("unknown request kind %q", request)
	}

	b, ok := c.registry.Resolve(requestType)
	if !ok {
		return fmt.Errorf("no binding for %s", requestType)
	}
	if b.Handler != handler {
		return fmt.Errorf("expected %s to be handled by %s, got %s", requestType, handler, b.Handler)
	}
	return nil
}

// ============================================================================
// Handlers
// ============================================================================

func (c *DispatchContext) countFactory() (mediator.Handler[countRequest, int64], error) {
	n := c.constructions.Add(1)
	return mediator.HandlerFunc[countRequest, int64](
		func(context.Context, countRequest) (int64, error) { return n, nil }), nil
}

func echoFactory() (mediator.Handler[echoRequest, string], error) {
	return mediator.HandlerFunc[echoRequest, string](
		func(_ context.Context, r echoRequest) (string, error) { return r.Text, nil }), nil
}
