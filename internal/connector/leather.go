package connector

import (
	"context"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

type leatherAddresses struct {
	Addresses []struct {
		Symbol  string `json:"symbol"`
		Type    string `json:"type"`
		Address string `json:"address"`
	} `json:"addresses"`
}

// LeatherConnector talks to Leather wallets.
type LeatherConnector struct {
	base
}

var _ Connector = (*LeatherConnector)(nil)

// NewLeatherConnector creates a Leather connector.
func NewLeatherConnector(opts Options) *LeatherConnector {
	return &LeatherConnector{base: newBase(TypeLeather, opts)}
}

// Connect picks the native segwit BTC address.
func (c *LeatherConnector) Connect(ctx context.Context, p Provider, network domain.Network) (string, error) {
	p, err := c.transport(p)
	if err != nil {
		return "", err
	}

	res, err := request[leatherAddresses](ctx, p, "getAddresses", nil)
	if err != nil {
		return "", err
	}

	for _, a := range res.Addresses {
		if a.Symbol == "BTC" && a.Type == "p2wpkh" {
			return c.checkAddress(a.Address, network)
		}
	}
	return "", ErrNoAddress
}

// Disconnect is a no-op; Leather has no session to release.
func (c *LeatherConnector) Disconnect(ctx context.Context) error {
	return nil
}
