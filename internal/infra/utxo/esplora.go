package utxo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/provider"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/routing"
)

type esploraUTXO struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  uint64 `json:"value"`
	Status struct {
		Confirmed   bool   `json:"confirmed"`
		BlockHeight uint64 `json:"block_height"`
	} `json:"status"`
}

// Esplora queries an Esplora-compatible REST API (mempool.space, blockstream.info).
// Providers are tried in order.
type Esplora struct {
	providers []provider.Provider
	params    ParamsFunc
	retry     routing.RetryConfig
}

// NewEsplora creates an Esplora source.
func NewEsplora(providers []provider.Provider, params ParamsFunc, retry routing.RetryConfig) *Esplora {
	return &Esplora{providers: providers, params: params, retry: retry}
}

func (e *Esplora) GetUTXOs(ctx context.Context, network domain.Network, address string) ([]domain.UTXO, error) {
	if err := validateAddress(e.params, network, address); err != nil {
		return nil, err
	}

	op := provider.NewRESTOperation(http.MethodGet, "address/"+url.PathEscape(address)+"/utxo", nil)
	raw, err := routing.CallWithFailover(ctx, e.providers, op, e.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to get utxos: %w", err)
	}

	var res []esploraUTXO
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("invalid utxo response: %w", err)
	}

	utxos := make([]domain.UTXO, 0, len(res))
	for _, u := range res {
		utxos = append(utxos, domain.UTXO{
			TxID:        u.TxID,
			Vout:        u.Vout,
			Value:       u.Value,
			Confirmed:   u.Status.Confirmed,
			BlockHeight: u.Status.BlockHeight,
		})
	}
	return utxos, nil
}
