package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/metrics"
	"github.com/andrescamacho/simplemediator-go/internal/adapters/rest"
	"github.com/andrescamacho/simplemediator-go/internal/adapters/tracing"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/logging"
)

// Module wires the API server for cfg
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			provideLogger,
			provideTelemetry,
			provideItemRepository,
			NewRegistry,
			provideDispatcher,
			fx.Annotate(provideRouter, fx.ResultTags(`name:"api"`)),
		),
		fx.Invoke(setupTracing),
		fx.Invoke(registerHooks),
	)
}

// NewApp builds the server application. fx lifecycle events go to the
// application logger.
func NewApp(cfg *config.Config, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		Module(cfg),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	}
	return fx.New(append(opts, extra...)...)
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync() // stdout/stderr sync returns EINVAL on most platforms
			return nil
		},
	})
	return logger, nil
}

func provideTelemetry(cfg *config.Config) (*Telemetry, error) {
	return NewTelemetry(cfg)
}

func provideItemRepository(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (item.ItemRepository, error) {
	repo, release, err := NewItemRepository(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return release() },
	})
	return repo, nil
}

func provideDispatcher(lc fx.Lifecycle, reg *mediator.Registry, t *Telemetry, logger *zap.Logger) *mediator.Dispatcher {
	d := NewDispatcher(reg, t, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return d.Close() },
	})
	return d
}

type routerDeps struct {
	fx.In

	Config     *config.Config
	Dispatcher *mediator.Dispatcher
	Logger     *zap.Logger
	Telemetry  *Telemetry
}

func provideRouter(d routerDeps) http.Handler {
	opts := rest.Options{
		Sender:      d.Dispatcher,
		Logger:      d.Logger,
		Auth:        d.Config.Server.Auth,
		RateLimit:   d.Config.Server.RateLimit,
		HTTPMetrics: d.Telemetry.HTTP,
		MetricsPath: d.Config.Metrics.Path,
	}
	if d.Telemetry.Registry != nil {
		opts.MetricsHandler = metrics.Handler(d.Telemetry.Registry)
	}
	return rest.NewRouter(opts)
}

func setupTracing(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) {
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = tracing.Setup(ctx, cfg.Tracing)
			if err != nil {
				return err
			}
			if cfg.Tracing.Enabled && cfg.Tracing.Endpoint != "" {
				logger.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

type serverDeps struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.Logger
	Handler   http.Handler `name:"api"`
}

func registerHooks(d serverDeps) {
	srv := &http.Server{
		Addr:         d.Config.Server.Address,
		Handler:      d.Handler,
		ReadTimeout:  d.Config.Server.ReadTimeout,
		WriteTimeout: d.Config.Server.WriteTimeout,
		ErrorLog:     zap.NewStdLog(d.Logger),
	}

	d.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Bind synchronously so an occupied address fails startup
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			d.Logger.Info("api listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Error("api server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, d.Config.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
