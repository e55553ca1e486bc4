// Package bootstrap assembles the application from configuration: the item
// store, the handler registry, the dispatcher and its middleware, and the
// HTTP router. The constructors are usable on their own (the CLI runs one-shot
// commands through them) and are wired together for the server by Module.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/metrics"
	"github.com/andrescamacho/simplemediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/simplemediator-go/internal/adapters/tracing"
	"github.com/andrescamacho/simplemediator-go/internal/application/items"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"github.com/andrescamacho/simplemediator-go/internal/domain/shared"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/database"
)

// Telemetry bundles the Prometheus registry and the collectors registered on it.
// Every field is nil when metrics are disabled.
type Telemetry struct {
	Registry *prometheus.Registry
	Dispatch *metrics.DispatchMetricsCollector
	HTTP     *metrics.HTTPMetricsCollector
}

// NewTelemetry creates the metrics registry and registers the collectors
func NewTelemetry(cfg *config.Config) (*Telemetry, error) {
	if !cfg.Metrics.Enabled {
		return &Telemetry{}, nil
	}

	t := &Telemetry{
		Registry: metrics.NewRegistry(),
		Dispatch: metrics.NewDispatchMetricsCollector(),
		HTTP:     metrics.NewHTTPMetricsCollector(),
	}
	if err := t.Dispatch.Register(t.Registry); err != nil {
		return nil, fmt.Errorf("failed to register dispatch metrics: %w", err)
	}
	if err := t.HTTP.Register(t.Registry); err != nil {
		return nil, fmt.Errorf("failed to register http metrics: %w", err)
	}
	return t, nil
}

// NewItemRepository opens the configured item store, migrates it when it is
// backed by a database and seeds the default catalog into an empty store.
// The returned function releases the store.
func NewItemRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (item.ItemRepository, func() error, error) {
	var (
		repo    item.ItemRepository
		release = func() error { return nil }
	)

	switch cfg.Database.Type {
	case "memory":
		repo = persistence.NewMemoryItemRepository()

	default:
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		repo = persistence.NewGormItemRepository(db)
		release = func() error { return database.Close(db) }
	}

	if err := persistence.SeedCatalog(ctx, repo, item.DefaultCatalog); err != nil {
		_ = release()
		return nil, nil, err
	}

	logger.Info("item store ready", zap.String("type", cfg.Database.Type))
	return repo, release, nil
}

// Handlers lists every handler candidate offered to discovery
func Handlers(repo item.ItemRepository, clock shared.Clock) []mediator.Descriptor {
	var candidates []mediator.Descriptor
	candidates = append(candidates, items.Handlers(repo, clock)...)
	return candidates
}

// NewRegistry discovers every handler with the configured default lifetime
func NewRegistry(cfg *config.Config, repo item.ItemRepository, logger *zap.Logger) (*mediator.Registry, error) {
	lifetime, err := mediator.ParseLifetime(cfg.Mediator.Lifetime)
	if err != nil {
		return nil, err
	}

	reg := mediator.NewRegistry(lifetime, mediator.WithRegistryLogger(logger))
	if err := reg.Discover(Handlers(repo, shared.NewRealClock())...); err != nil {
		return nil, fmt.Errorf("handler discovery failed: %w", err)
	}
	return reg, nil
}

// NewDispatcher seals reg and wraps every dispatch in tracing, metrics and
// logging, outermost first. Metrics are skipped when t carries no collector.
func NewDispatcher(reg *mediator.Registry, t *Telemetry, logger *zap.Logger) *mediator.Dispatcher {
	mw := []mediator.Middleware{tracing.Middleware(nil)}
	if t != nil && t.Dispatch != nil {
		mw = append(mw, metrics.PrometheusMiddleware(t.Dispatch))
	}
	mw = append(mw, mediator.LoggingMiddleware(logger))

	return mediator.NewDispatcher(reg,
		mediator.WithLogger(logger),
		mediator.WithMiddleware(mw...),
	)
}
