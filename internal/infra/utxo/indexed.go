package utxo

import (
	"context"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

// Store lists unspent outputs from a local index.
type Store interface {
	ListUnspent(ctx context.Context, chain domain.ChainID, address string) ([]domain.UTXO, error)
}

// Indexed serves queries from a Store populated by an external indexer.
type Indexed struct {
	store  Store
	params ParamsFunc
}

// NewIndexed creates a source backed by store.
func NewIndexed(store Store, params ParamsFunc) *Indexed {
	return &Indexed{store: store, params: params}
}

func (i *Indexed) GetUTXOs(ctx context.Context, network domain.Network, address string) ([]domain.UTXO, error) {
	if err := validateAddress(i.params, network, address); err != nil {
		return nil, err
	}
	return i.store.ListUnspent(ctx, network.ID, address)
}
