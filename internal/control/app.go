// Package control wires the adapter and its infrastructure from configuration
// and manages their lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/bitcoin-adapter/internal/adapter"
	"github.com/vietddude/bitcoin-adapter/internal/api"
	"github.com/vietddude/bitcoin-adapter/internal/core/config"
	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/core/network"
	"github.com/vietddude/bitcoin-adapter/internal/core/worker"
	"github.com/vietddude/bitcoin-adapter/internal/health"
	redisclient "github.com/vietddude/bitcoin-adapter/internal/infra/redis"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/provider"
	"github.com/vietddude/bitcoin-adapter/internal/infra/storage/postgres"
	"github.com/vietddude/bitcoin-adapter/internal/infra/transport"
)

// App is the running adapter service.
type App struct {
	cfg        *config.AppConfig
	adapter    *adapter.Adapter
	monitor    *health.Monitor
	server     *api.Server
	db         *postgres.DB
	redis      *redisclient.Client
	transports []transport.Transport
	providers  []provider.Provider
	cancel     context.CancelFunc
	log        *slog.Logger
}

// NewApp builds every component named by cfg. Resources opened before a
// failure are released.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	app := &App{
		cfg:     cfg,
		monitor: health.NewMonitor(10 * time.Second),
		log:     slog.Default().With("component", "control"),
	}
	if err := app.build(ctx); err != nil {
		_ = app.close()
		return nil, err
	}
	return app, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.cfg

	catalog, err := buildCatalog(cfg.Network)
	if err != nil {
		return err
	}

	registry, err := a.buildConnectors(cfg.Connectors, catalog)
	if err != nil {
		return err
	}

	source, err := a.buildUTXO(ctx, cfg, catalog)
	if err != nil {
		return err
	}

	a.adapter = adapter.New(source,
		adapter.WithRegistry(registry),
		adapter.WithCatalog(catalog),
		adapter.WithLogger(slog.Default()),
	)

	router := api.NewRouter(a.adapter, a.monitor,
		api.WithRequestTimeout(cfg.Server.RequestTimeout),
		api.WithLogger(slog.Default().With("component", "api")),
	)
	a.server = api.NewServer(router, cfg.Server.Port)

	a.log.Info("adapter initialized",
		"default_network", catalog.Default().ID,
		"connectors", registry.Len(),
		"utxo_backends", len(cfg.UTXO.Backends),
		"cache", cfg.UTXO.Cache.Enabled,
	)
	return nil
}

func buildCatalog(cfg config.NetworkConfig) (*network.Catalog, error) {
	if cfg.Default == "" {
		return network.MainnetCatalog(), nil
	}
	id, err := domain.ParseChainID(cfg.Default)
	if err != nil {
		return nil, err
	}
	return network.NewCatalog(id)
}

// Adapter returns the adapter core.
func (a *App) Adapter() *adapter.Adapter {
	return a.adapter
}

// Start serves the HTTP API in the background.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
		go worker.NewPruner(a.cfg.Database.Retention, postgres.NewUTXORepo(a.db)).Start(ctx)
	}

	go func() {
		a.log.Info("http server listening", "port", a.cfg.Server.Port)
		if err := a.server.Start(); err != nil {
			a.log.Error("http server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the HTTP server down and releases all resources.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("stopping adapter")
	if a.cancel != nil {
		a.cancel()
	}

	var errs []error
	if err := a.server.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// close releases transports, providers and stores concurrently.
func (a *App) close() error {
	var g errgroup.Group

	closers := make([]io.Closer, 0, len(a.transports)+len(a.providers)+2)
	for _, t := range a.transports {
		closers = append(closers, t)
	}
	for _, p := range a.providers {
		closers = append(closers, p)
	}
	if a.redis != nil {
		closers = append(closers, a.redis)
	}
	if a.db != nil {
		closers = append(closers, a.db)
	}

	for _, c := range closers {
		g.Go(func() error {
			if err := c.Close(); err != nil {
				a.log.Warn("close failed", "error", err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
