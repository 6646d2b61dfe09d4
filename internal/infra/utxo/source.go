// Package utxo implements the UTXO query backends behind the balance pipeline.
package utxo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/metrics"
)

var (
	// ErrNoSource is returned when no backend is configured for a network
	ErrNoSource = errors.New("no utxo source for network")

	// ErrInvalidAddress is returned when an address does not decode for the network
	ErrInvalidAddress = errors.New("invalid address")
)

// Source lists the unspent outputs of an address on a network.
type Source interface {
	GetUTXOs(ctx context.Context, network domain.Network, address string) ([]domain.UTXO, error)
}

// ParamsFunc resolves btcd chain parameters for a network.
type ParamsFunc func(domain.ChainID) (*chaincfg.Params, bool)

// validateAddress decodes address with the network's params. Networks without
// known params are not validated.
func validateAddress(params ParamsFunc, network domain.Network, address string) error {
	if address == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	if params == nil {
		return nil
	}
	p, ok := params(network.ID)
	if !ok {
		return nil
	}
	decoded, err := btcutil.DecodeAddress(address, p)
	if err != nil {
		return fmt.Errorf("%w %q for %s: %v", ErrInvalidAddress, address, p.Name, err)
	}
	// bech32 decoding ignores the network prefix
	if !decoded.IsForNet(p) {
		return fmt.Errorf("%w %q for %s: wrong network", ErrInvalidAddress, address, p.Name)
	}
	return nil
}

// Router dispatches queries to the source configured for the network.
type Router struct {
	sources map[domain.ChainID]Source
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{sources: make(map[domain.ChainID]Source)}
}

// Handle registers s for chain.
func (r *Router) Handle(chain domain.ChainID, s Source) {
	r.sources[chain] = s
}

func (r *Router) GetUTXOs(ctx context.Context, network domain.Network, address string) ([]domain.UTXO, error) {
	s, ok := r.sources[network.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, network.ID)
	}
	return s.GetUTXOs(ctx, network, address)
}

type instrumented struct {
	name string
	next Source
}

// Instrument records latency and failures of s under name.
func Instrument(name string, s Source) Source {
	return &instrumented{name: name, next: s}
}

func (i *instrumented) GetUTXOs(ctx context.Context, network domain.Network, address string) ([]domain.UTXO, error) {
	start := time.Now()
	utxos, err := i.next.GetUTXOs(ctx, network, address)
	metrics.UTXOQueryLatency.WithLabelValues(i.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UTXOQueryErrorsTotal.WithLabelValues(i.name).Inc()
	}
	return utxos, err
}
