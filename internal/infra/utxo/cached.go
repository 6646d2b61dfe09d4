package utxo

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/metrics"
)

// Cache stores UTXO sets per chain and address.
type Cache interface {
	GetUTXOs(ctx context.Context, chain domain.ChainID, address string) ([]domain.UTXO, bool, error)
	SetUTXOs(ctx context.Context, chain domain.ChainID, address string, utxos []domain.UTXO, ttl time.Duration) error
}

// Cached serves recent results from a cache and falls through to next.
// Cache failures are logged and never fail a query.
type Cached struct {
	next  Source
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCached wraps next with cache.
func NewCached(next Source, cache Cache, ttl time.Duration, log *slog.Logger) *Cached {
	if log == nil {
		log = slog.Default()
	}
	return &Cached{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *Cached) GetUTXOs(ctx context.Context, network domain.Network, address string) ([]domain.UTXO, error) {
	utxos, found, err := c.cache.GetUTXOs(ctx, network.ID, address)
	switch {
	case err != nil:
		metrics.UTXOCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn("utxo cache read failed", "chain", network.ID, "address", address, "error", err)
	case found:
		metrics.UTXOCacheTotal.WithLabelValues("hit").Inc()
		return utxos, nil
	default:
		metrics.UTXOCacheTotal.WithLabelValues("miss").Inc()
	}

	utxos, err = c.next.GetUTXOs(ctx, network, address)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetUTXOs(ctx, network.ID, address, utxos, c.ttl); err != nil {
		c.log.Warn("utxo cache write failed", "chain", network.ID, "address", address, "error", err)
	}
	return utxos, nil
}
