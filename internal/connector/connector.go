// Package connector defines the wallet connector abstraction and its
// wallet-protocol variants.
package connector

//go:generate mockgen -destination=mocks/mock_connector.go -package=mocks -source=connector.go Provider,Connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

// Connector types
const (
	TypeSatsConnect = "sats-connect"
	TypeLeather     = "leather"
	TypeOKX         = "okx"
)

var (
	// ErrNoAddress is returned when the wallet did not hand out a usable address
	ErrNoAddress = errors.New("wallet returned no address")

	// ErrNoProvider is returned when neither the request nor the connector has a transport
	ErrNoProvider = errors.New("connector has no provider")
)

// Provider is the transport handle to a wallet.
type Provider interface {
	// Request sends a wallet RPC request and returns the raw result
	Request(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// Connector is a wallet integration able to produce an address.
type Connector interface {
	// ID returns the connector identifier
	ID() string

	// Type returns the connector kind
	Type() string

	// Provider returns the connector's own transport
	Provider() Provider

	// Chains returns the networks the connector supports
	Chains() []domain.Network

	// ActiveNetwork returns the network the connector currently targets
	ActiveNetwork() domain.Network

	// Connect asks the wallet for an address on network. A nil provider
	// means the connector's own transport; a zero network means the active one.
	Connect(ctx context.Context, p Provider, network domain.Network) (string, error)

	// Disconnect releases the wallet session
	Disconnect(ctx context.Context) error
}

// Options configure a connector.
type Options struct {
	ID       string
	Provider Provider
	Chains   []domain.Network

	// ActiveNetwork overrides the default of the first supported chain
	ActiveNetwork func() domain.Network

	// Params resolves address parameters per chain; nil disables validation
	Params func(domain.ChainID) (*chaincfg.Params, bool)
}

// base holds the state shared by every variant.
type base struct {
	id       string
	kind     string
	provider Provider
	chains   []domain.Network
	active   func() domain.Network
	params   func(domain.ChainID) (*chaincfg.Params, bool)
}

func newBase(kind string, opts Options) base {
	b := base{
		id:       opts.ID,
		kind:     kind,
		provider: opts.Provider,
		chains:   append([]domain.Network(nil), opts.Chains...),
		active:   opts.ActiveNetwork,
		params:   opts.Params,
	}
	if b.id == "" {
		b.id = kind
	}
	return b
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Type() string {
	return b.kind
}

func (b *base) Provider() Provider {
	return b.provider
}

func (b *base) Chains() []domain.Network {
	out := make([]domain.Network, len(b.chains))
	copy(out, b.chains)
	return out
}

func (b *base) ActiveNetwork() domain.Network {
	if b.active != nil {
		return b.active()
	}
	if len(b.chains) > 0 {
		return b.chains[0]
	}
	return domain.Network{}
}

// transport picks the request's provider over the connector's own.
func (b *base) transport(p Provider) (Provider, error) {
	if p != nil {
		return p, nil
	}
	if b.provider != nil {
		return b.provider, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoProvider, b.id)
}

// checkAddress validates addr against network, or the active network when
// network is zero, whenever params are known for it.
func (b *base) checkAddress(addr string, network domain.Network) (string, error) {
	if addr == "" {
		return "", ErrNoAddress
	}
	if b.params == nil {
		return addr, nil
	}
	if network.ID == (domain.ChainID{}) {
		network = b.ActiveNetwork()
	}
	params, ok := b.params(network.ID)
	if !ok {
		return addr, nil
	}
	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return "", fmt.Errorf("invalid address %q for %s: %w", addr, params.Name, err)
	}
	// bech32 decoding ignores the network prefix
	if !decoded.IsForNet(params) {
		return "", fmt.Errorf("invalid address %q for %s: wrong network", addr, params.Name)
	}
	return addr, nil
}

func request[T any](ctx context.Context, p Provider, method string, params any) (T, error) {
	var out T
	raw, err := p.Request(ctx, method, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s result: %w", method, err)
	}
	return out, nil
}
