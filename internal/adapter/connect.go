package adapter

import (
	"context"
	"fmt"

	"github.com/vietddude/bitcoin-adapter/internal/connector"
	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/metrics"
)

// ConnectionRequest asks a connector for an account.
type ConnectionRequest struct {
	ID       string             `json:"id"`
	ChainID  string             `json:"chainId"`
	Provider connector.Provider `json:"-"`
	Type     string             `json:"type"`
}

// Account is the result of a successful connect.
type Account struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Address  string             `json:"address"`
	ChainID  domain.ChainID     `json:"chainId"`
	Provider connector.Provider `json:"-"`
}

// ConnectorInfo summarizes a registered connector.
type ConnectorInfo struct {
	ID     string           `json:"id"`
	Type   string           `json:"type"`
	Chains []domain.ChainID `json:"chains"`
}

// Connect resolves the connector and network for req and asks the wallet
// for an address. Wallet errors are returned unchanged.
func (a *Adapter) Connect(ctx context.Context, req ConnectionRequest) (*Account, error) {
	c, ok := a.connectors.Find(req.ID)
	if !ok {
		metrics.ConnectsTotal.WithLabelValues(metrics.LabelUnknown, metrics.OutcomeNotFound).Inc()
		return nil, fmt.Errorf("%w: %s", ErrConnectorNotFound, req.ID)
	}

	net := a.targetNetwork(c, req.ChainID)

	address, err := c.Connect(ctx, req.Provider, net)
	if err != nil {
		metrics.ConnectsTotal.WithLabelValues(c.ID(), metrics.OutcomeError).Inc()
		a.log.Debug("connect failed", "connector", c.ID(), "error", err)
		return nil, err
	}
	metrics.ConnectsTotal.WithLabelValues(c.ID(), metrics.OutcomeOK).Inc()

	kind := req.Type
	if kind == "" {
		kind = c.Type()
	}
	provider := req.Provider
	if provider == nil {
		provider = c.Provider()
	}

	a.log.Info("connected", "connector", c.ID(), "chain", net.ID, "address", address)

	return &Account{
		ID:       req.ID,
		Type:     kind,
		Address:  address,
		ChainID:  net.ID,
		Provider: provider,
	}, nil
}

// targetNetwork picks the requested network if the connector supports it,
// then the connector's active network, then the default network.
func (a *Adapter) targetNetwork(c connector.Connector, requested string) domain.Network {
	if id, err := domain.ParseChainID(requested); err == nil && id.IsBip122() {
		for _, n := range c.Chains() {
			if n.ID == id {
				return n
			}
		}
	}

	if active := c.ActiveNetwork(); active.ID.IsBip122() {
		return active
	}
	return a.catalog.Default()
}

// Disconnect releases the session held by the connector.
func (a *Adapter) Disconnect(ctx context.Context, id string) error {
	c, ok := a.connectors.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectorNotFound, id)
	}
	return c.Disconnect(ctx)
}

// Connectors lists the registered connectors in registration order.
func (a *Adapter) Connectors() []ConnectorInfo {
	all := a.connectors.All()
	out := make([]ConnectorInfo, 0, len(all))
	for _, c := range all {
		info := ConnectorInfo{ID: c.ID(), Type: c.Type()}
		for _, n := range c.Chains() {
			info.Chains = append(info.Chains, n.ID)
		}
		out = append(out, info)
	}
	return out
}
