package connector

import (
	"context"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

type okxAccount struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// OKXConnector talks to the OKX wallet bitcoin provider.
type OKXConnector struct {
	base
}

var _ Connector = (*OKXConnector)(nil)

// NewOKXConnector creates an OKX connector.
func NewOKXConnector(opts Options) *OKXConnector {
	return &OKXConnector{base: newBase(TypeOKX, opts)}
}

func (c *OKXConnector) Connect(ctx context.Context, p Provider, network domain.Network) (string, error) {
	p, err := c.transport(p)
	if err != nil {
		return "", err
	}

	acc, err := request[okxAccount](ctx, p, "connect", nil)
	if err != nil {
		return "", err
	}
	return c.checkAddress(acc.Address, network)
}

func (c *OKXConnector) Disconnect(ctx context.Context) error {
	p, err := c.transport(nil)
	if err != nil {
		return err
	}
	_, err = p.Request(ctx, "disconnect", nil)
	return err
}
