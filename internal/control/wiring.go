package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/bitcoin-adapter/internal/connector"
	"github.com/vietddude/bitcoin-adapter/internal/core/config"
	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/core/network"
	redisclient "github.com/vietddude/bitcoin-adapter/internal/infra/redis"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/provider"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/routing"
	"github.com/vietddude/bitcoin-adapter/internal/infra/storage/postgres"
	"github.com/vietddude/bitcoin-adapter/internal/infra/transport"
	"github.com/vietddude/bitcoin-adapter/internal/infra/utxo"
)

func (a *App) buildConnectors(
	cfgs []config.ConnectorConfig,
	catalog *network.Catalog,
) (*connector.Registry, error) {
	registry, err := connector.NewRegistry()
	if err != nil {
		return nil, err
	}

	for _, cc := range cfgs {
		chains, err := resolveChains(cc.Chains, catalog)
		if err != nil {
			return nil, fmt.Errorf("connector %q: %w", cc.ID, err)
		}

		t, err := transport.New(
			cc.Transport.Kind,
			cc.Transport.URL,
			cc.Transport.Timeout,
			slog.Default().With("connector", cc.ID),
		)
		if err != nil {
			return nil, fmt.Errorf("connector %q: %w", cc.ID, err)
		}
		a.transports = append(a.transports, t)

		c, err := connector.New(cc.Type, connector.Options{
			ID:       cc.ID,
			Provider: t,
			Chains:   chains,
			Params:   catalog.Params,
		})
		if err != nil {
			return nil, err
		}
		if err := registry.Add(c); err != nil {
			return nil, err
		}
		a.log.Info("connector registered", "id", cc.ID, "type", cc.Type, "transport", cc.Transport.Kind)
	}
	return registry, nil
}

// resolveChains maps configured chain ids to catalog networks. No ids means
// the default network.
func resolveChains(ids []string, catalog *network.Catalog) ([]domain.Network, error) {
	if len(ids) == 0 {
		return []domain.Network{catalog.Default()}, nil
	}
	chains := make([]domain.Network, 0, len(ids))
	for _, s := range ids {
		id, err := domain.ParseChainID(s)
		if err != nil {
			return nil, err
		}
		n, ok := catalog.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("unsupported chain %s", id)
		}
		chains = append(chains, n)
	}
	return chains, nil
}

func (a *App) buildUTXO(
	ctx context.Context,
	cfg *config.AppConfig,
	catalog *network.Catalog,
) (utxo.Source, error) {
	retry := routing.RetryConfig{
		MaxAttempts:     cfg.UTXO.Retry.MaxAttempts,
		InitialDelay:    cfg.UTXO.Retry.InitialDelay,
		MaxDelay:        cfg.UTXO.Retry.MaxDelay,
		BackoffMultiple: routing.DefaultRetryConfig.BackoffMultiple,
	}

	router := utxo.NewRouter()
	for _, b := range cfg.UTXO.Backends {
		chain, err := domain.ParseChainID(b.Chain)
		if err != nil {
			return nil, err
		}

		var source utxo.Source
		switch b.Kind {
		case config.BackendEsplora:
			source = utxo.NewEsplora(a.buildProviders(b.Providers), catalog.Params, retry)
		case config.BackendBitcoind:
			source = utxo.NewBitcoind(a.buildProviders(b.Providers), catalog.Params, retry)
		case config.BackendPostgres:
			db, err := a.openDB(ctx, cfg.Database)
			if err != nil {
				return nil, err
			}
			source = utxo.NewIndexed(postgres.NewUTXORepo(db), catalog.Params)
		default:
			return nil, fmt.Errorf("unknown utxo backend %q", b.Kind)
		}

		router.Handle(chain, utxo.Instrument(b.Kind, source))
		a.log.Info("utxo backend registered", "chain", chain, "kind", b.Kind, "providers", len(b.Providers))
	}

	if !cfg.UTXO.Cache.Enabled {
		return router, nil
	}

	client, err := redisclient.NewClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.monitor.AddCheck("redis", client.Health, false)

	return utxo.NewCached(router, client, cfg.UTXO.Cache.TTL, slog.Default().With("component", "utxo-cache")), nil
}

func (a *App) buildProviders(cfgs []config.ProviderConfig) []provider.Provider {
	providers := make([]provider.Provider, 0, len(cfgs))
	for _, pc := range cfgs {
		p := provider.NewHTTPProvider(pc.Name, pc.URL, pc.Timeout)
		providers = append(providers, p)
		a.providers = append(a.providers, p)
	}
	a.monitor.AddProviders(providers...)
	return providers
}

// openDB connects once and migrates if configured.
func (a *App) openDB(ctx context.Context, cfg postgres.Config) (*postgres.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	db, err := postgres.NewDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}
	a.db = db
	a.monitor.AddCheck("postgres", db.Health, true)

	if cfg.Migrate {
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
		a.log.Info("database migrated")
	}
	return db, nil
}
