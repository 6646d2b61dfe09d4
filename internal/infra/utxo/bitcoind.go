package utxo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/vietddude/bitcoin-adapter/internal/core/amount"
	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/provider"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/routing"
)

type scanResult struct {
	Success  bool   `json:"success"`
	Height   uint64 `json:"height"`
	Unspents []struct {
		TxID   string          `json:"txid"`
		Vout   uint32          `json:"vout"`
		Amount json.Number     `json:"amount"`
		Height uint64          `json:"height"`
		Desc   json.RawMessage `json:"desc"`
	} `json:"unspents"`
}

// Bitcoind scans the UTXO set of a bitcoind node with scantxoutset.
// Only confirmed outputs are visible to a scan.
type Bitcoind struct {
	providers []provider.Provider
	params    ParamsFunc
	retry     routing.RetryConfig
}

// NewBitcoind creates a bitcoind source.
func NewBitcoind(providers []provider.Provider, params ParamsFunc, retry routing.RetryConfig) *Bitcoind {
	return &Bitcoind{providers: providers, params: params, retry: retry}
}

func (b *Bitcoind) GetUTXOs(ctx context.Context, network domain.Network, address string) ([]domain.UTXO, error) {
	if err := validateAddress(b.params, network, address); err != nil {
		return nil, err
	}

	op := provider.NewJSONRPC10Operation("scantxoutset", "start", []string{"addr(" + address + ")"})
	raw, err := routing.CallWithFailover(ctx, b.providers, op, b.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to scan utxo set: %w", err)
	}

	var res scanResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("invalid scantxoutset response: %w", err)
	}
	if !res.Success {
		return nil, fmt.Errorf("scantxoutset aborted")
	}

	utxos := make([]domain.UTXO, 0, len(res.Unspents))
	for _, u := range res.Unspents {
		sats, err := btcToSats(u.Amount)
		if err != nil {
			return nil, fmt.Errorf("output %s:%d: %w", u.TxID, u.Vout, err)
		}
		utxos = append(utxos, domain.UTXO{
			TxID:        u.TxID,
			Vout:        u.Vout,
			Value:       sats,
			Confirmed:   true,
			BlockHeight: u.Height,
		})
	}
	return utxos, nil
}

var maxSats = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// btcToSats converts a bitcoind amount without going through float64.
func btcToSats(n json.Number) (uint64, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", n, err)
	}
	sats := d.Shift(amount.SatoshiDecimals)
	if sats.IsNegative() || !sats.Equal(sats.Truncate(0)) || sats.GreaterThan(maxSats) {
		return 0, fmt.Errorf("invalid amount %q", n)
	}
	return sats.BigInt().Uint64(), nil
}
