// Package adapter is the bip122 chain adapter: it dispatches connection
// requests to wallet connectors and computes address balances from UTXOs.
package adapter

//go:generate mockgen -destination=mocks/mock_adapter.go -package=mocks -source=adapter.go UTXOSource

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vietddude/bitcoin-adapter/internal/connector"
	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/core/network"
)

var (
	// ErrConnectorNotFound is returned when no connector with the requested id is registered
	ErrConnectorNotFound = errors.New("connector not found")

	// ErrEmptyAddress is returned for balance queries without an address
	ErrEmptyAddress = errors.New("address is required")
)

// UTXOSource lists the unspent outputs of an address.
type UTXOSource interface {
	GetUTXOs(ctx context.Context, network domain.Network, address string) ([]domain.UTXO, error)
}

// Adapter connects wallets and reads balances on bip122 networks.
type Adapter struct {
	connectors *connector.Registry
	catalog    *network.Catalog
	api        UTXOSource
	log        *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRegistry sets the connector registry.
func WithRegistry(r *connector.Registry) Option {
	return func(a *Adapter) {
		a.connectors = r
	}
}

// WithCatalog sets the network catalog and with it the default network.
func WithCatalog(c *network.Catalog) Option {
	return func(a *Adapter) {
		a.catalog = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		a.log = l
	}
}

// New creates an adapter reading UTXOs from api. Without options it has an
// empty registry and defaults to bitcoin mainnet.
func New(api UTXOSource, opts ...Option) *Adapter {
	a := &Adapter{api: api}
	for _, opt := range opts {
		opt(a)
	}

	if a.connectors == nil {
		a.connectors, _ = connector.NewRegistry()
	}
	if a.catalog == nil {
		a.catalog = network.MainnetCatalog()
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	a.log = a.log.With("component", "adapter")
	return a
}

// Registry returns the connector registry.
func (a *Adapter) Registry() *connector.Registry {
	return a.connectors
}

// DefaultNetwork returns the network used when a request names none we support.
func (a *Adapter) DefaultNetwork() domain.Network {
	return a.catalog.Default()
}

// Networks lists the networks known to the catalog.
func (a *Adapter) Networks() []domain.Network {
	return a.catalog.All()
}
