package bootstrap_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/andrescamacho/simplemediator-go/internal/application/items/commands"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/queries"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/bootstrap"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
)

type apiParams struct {
	fx.In

	Handler http.Handler `name:"api"`
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Logging.Level = "error"
	return cfg
}

func TestNewRegistry_DiscoversItemHandlers(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := testConfig()
	cfg.Mediator.Lifetime = "singleton"
	repo, release, err := bootstrap.NewItemRepository(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()

	// Act
	reg, err := bootstrap.NewRegistry(cfg, repo, zap.NewNop())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, mediator.LifetimeSingleton, reg.DefaultLifetime())
	for _, b := range reg.Bindings() {
		assert.Equal(t, mediator.LifetimeSingleton, b.Lifetime, b.Handler)
	}
}

func TestNewRegistry_RejectsUnknownLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.Mediator.Lifetime = "forever"

	_, err := bootstrap.NewRegistry(cfg, nil, zap.NewNop())

	assert.Error(t, err)
}

func TestNewItemRepository_SeedsCatalogOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := testConfig()
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "items.db")

	repo, release, err := bootstrap.NewItemRepository(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, release())

	// Act
	repo, release, err = bootstrap.NewItemRepository(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()
	items, err := repo.List(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Item1", items[0].Name())
	assert.Equal(t, 1, items[0].Position())
}

func TestNewDispatcher_ServesListAndAdd(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := testConfig()
	repo, release, err := bootstrap.NewItemRepository(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()
	reg, err := bootstrap.NewRegistry(cfg, repo, zap.NewNop())
	require.NoError(t, err)
	telemetry, err := bootstrap.NewTelemetry(cfg)
	require.NoError(t, err)

	d := bootstrap.NewDispatcher(reg, telemetry, zap.NewNop())
	defer d.Close()

	// Act
	_, err = mediator.Send(ctx, d, commands.AddItemCommand{Name: "Item4"})
	require.NoError(t, err)
	names, err := mediator.Send(ctx, d, queries.ListItemsQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Item1", "Item2", "Item3", "Item4"}, names)
	assert.True(t, reg.Sealed())
}

func TestNewTelemetry_DisabledHasNoCollectors(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false

	telemetry, err := bootstrap.NewTelemetry(cfg)

	require.NoError(t, err)
	assert.Nil(t, telemetry.Registry)
	assert.Nil(t, telemetry.Dispatch)
	assert.Nil(t, telemetry.HTTP)
}

func TestModule_StartsAndServesAPI(t *testing.T) {
	// Arrange
	var api http.Handler
	app := fxtest.New(t,
		bootstrap.Module(testConfig()),
		fx.Invoke(func(p apiParams) { api = p.Handler }),
	)

	// Act
	app.RequireStart()
	defer app.RequireStop()

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `["Item1","Item2","Item3"]`, string(body))

	metricsRec := httptest.NewRecorder()
	api.ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, metricsRec.Code)
	assert.True(t, strings.Contains(metricsRec.Body.String(), "simpleapi_mediator_dispatches_total"))
}

func TestModule_FailsOnInvalidLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.Mediator.Lifetime = "forever"

	err := fx.ValidateApp(bootstrap.Module(cfg), fx.Invoke(func(*mediator.Dispatcher) {}))

	assert.NoError(t, err, "the graph is valid; the failure surfaces at construction")

	app := fx.New(bootstrap.Module(cfg), fx.NopLogger)
	assert.Error(t, app.Err())
}
