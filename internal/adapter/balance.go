package adapter

import (
	"context"

	"github.com/vietddude/bitcoin-adapter/internal/core/amount"
	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/metrics"
)

// BalanceQuery identifies the address and chain to read. Network is the
// caller's descriptor for ChainID, if it has one.
type BalanceQuery struct {
	Address string
	ChainID string
	Network *domain.Network
}

// GetBalance sums the address's UTXOs and returns the total in major units.
// Chains outside the bip122 namespace yield a zero balance without any
// remote call. UTXO source errors are returned unchanged.
func (a *Adapter) GetBalance(ctx context.Context, q BalanceQuery) (*domain.Balance, error) {
	id, err := domain.ParseChainID(q.ChainID)
	if err != nil || !id.IsBip122() {
		metrics.BalanceQueriesTotal.WithLabelValues(metrics.LabelUnsupported, metrics.OutcomeUnsupported).Inc()
		return &domain.Balance{Balance: "0", Symbol: a.fallbackSymbol(q.Network)}, nil
	}

	if q.Address == "" {
		return nil, ErrEmptyAddress
	}

	net := a.resolveNetwork(id, q.Network)

	label := a.chainLabel(id)
	utxos, err := a.api.GetUTXOs(ctx, net, q.Address)
	if err != nil {
		metrics.BalanceQueriesTotal.WithLabelValues(label, metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.BalanceQueriesTotal.WithLabelValues(label, metrics.OutcomeOK).Inc()

	decimals := net.Currency.Decimals
	if decimals <= 0 {
		decimals = amount.SatoshiDecimals
	}

	return &domain.Balance{
		Balance: amount.Format(amount.ToMajor(amount.SumUTXOs(utxos), decimals)),
		Symbol:  net.Symbol(),
	}, nil
}

// chainLabel keeps the metric label set bounded to catalog chains.
func (a *Adapter) chainLabel(id domain.ChainID) string {
	if _, ok := a.catalog.Lookup(id); ok {
		return id.String()
	}
	return metrics.LabelUnknown
}

func (a *Adapter) fallbackSymbol(supplied *domain.Network) string {
	if supplied != nil && supplied.ID.IsBip122() && supplied.Symbol() != "" {
		return supplied.Symbol()
	}
	return a.catalog.Default().Symbol()
}

// resolveNetwork prefers the caller's descriptor when it matches id, then the
// catalog. An unknown bip122 chain keeps its id with the default currency.
func (a *Adapter) resolveNetwork(id domain.ChainID, supplied *domain.Network) domain.Network {
	if supplied != nil && supplied.ID == id && supplied.Symbol() != "" {
		return *supplied
	}
	if n, ok := a.catalog.Lookup(id); ok {
		return n
	}
	def := a.catalog.Default()
	return domain.Network{ID: id, Name: id.String(), Currency: def.Currency}
}
