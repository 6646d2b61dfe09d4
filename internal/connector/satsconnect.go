package connector

import (
	"context"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

// Address purposes
const (
	PurposePayment  = "payment"
	PurposeOrdinals = "ordinals"
)

type satsAccount struct {
	Address     string `json:"address"`
	PublicKey   string `json:"publicKey"`
	Purpose     string `json:"purpose"`
	AddressType string `json:"addressType"`
}

// SatsConnectConnector talks the sats-connect protocol (Xverse and compatible wallets).
type SatsConnectConnector struct {
	base
}

var _ Connector = (*SatsConnectConnector)(nil)

// NewSatsConnectConnector creates a sats-connect connector.
func NewSatsConnectConnector(opts Options) *SatsConnectConnector {
	return &SatsConnectConnector{base: newBase(TypeSatsConnect, opts)}
}

// Connect requests the payment account.
func (c *SatsConnectConnector) Connect(ctx context.Context, p Provider, network domain.Network) (string, error) {
	p, err := c.transport(p)
	if err != nil {
		return "", err
	}

	accounts, err := request[[]satsAccount](ctx, p, "getAccounts", map[string]any{
		"purposes": []string{PurposePayment},
	})
	if err != nil {
		return "", err
	}

	for _, a := range accounts {
		if a.Purpose == PurposePayment {
			return c.checkAddress(a.Address, network)
		}
	}
	return "", ErrNoAddress
}

// Disconnect renounces the wallet permissions.
func (c *SatsConnectConnector) Disconnect(ctx context.Context) error {
	p, err := c.transport(nil)
	if err != nil {
		return err
	}
	_, err = p.Request(ctx, "wallet_renouncePermissions", nil)
	return err
}
