// Package network holds the bitcoin-family network descriptors the adapter
// knows about and the chain parameters used to validate addresses on them.
package network

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

// BTC is the native currency of every bip122 network.
var BTC = domain.Currency{Name: "Bitcoin", Symbol: "BTC", Decimals: 8}

// Built-in networks. The CAIP-2 reference is the first 32 hex characters of
// the genesis block hash.
var (
	Bitcoin        = newBip122("Bitcoin", &chaincfg.MainNetParams, false)
	BitcoinTestnet = newBip122("Bitcoin Testnet", &chaincfg.TestNet3Params, true)
	BitcoinSignet  = newBip122("Bitcoin Signet", &chaincfg.SigNetParams, true)
	BitcoinRegtest = newBip122("Bitcoin Regtest", &chaincfg.RegressionNetParams, true)
)

var builtinParams = map[domain.ChainID]*chaincfg.Params{
	Bitcoin.ID:        &chaincfg.MainNetParams,
	BitcoinTestnet.ID: &chaincfg.TestNet3Params,
	BitcoinSignet.ID:  &chaincfg.SigNetParams,
	BitcoinRegtest.ID: &chaincfg.RegressionNetParams,
}

func newBip122(name string, params *chaincfg.Params, testnet bool) domain.Network {
	return domain.Network{
		ID: domain.ChainID{
			Namespace: domain.NamespaceBip122,
			Reference: params.GenesisHash.String()[:32],
		},
		Name:     name,
		Currency: BTC,
		Testnet:  testnet,
	}
}

// Catalog is an immutable lookup table of network descriptors with one
// designated default network.
type Catalog struct {
	networks []domain.Network
	byID     map[domain.ChainID]domain.Network
	params   map[domain.ChainID]*chaincfg.Params
	def      domain.Network
}

// NewCatalog builds a catalog from the built-in bip122 networks.
// defaultID selects the default network and must be one of them.
func NewCatalog(defaultID domain.ChainID) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[domain.ChainID]domain.Network),
		params: make(map[domain.ChainID]*chaincfg.Params),
	}
	for _, n := range []domain.Network{Bitcoin, BitcoinTestnet, BitcoinSignet, BitcoinRegtest} {
		c.networks = append(c.networks, n)
		c.byID[n.ID] = n
		c.params[n.ID] = builtinParams[n.ID]
	}

	def, ok := c.byID[defaultID]
	if !ok {
		return nil, fmt.Errorf("default network %q is not a known bip122 network", defaultID)
	}
	c.def = def
	return c, nil
}

// MainnetCatalog returns a catalog whose default network is bitcoin mainnet.
func MainnetCatalog() *Catalog {
	c, err := NewCatalog(Bitcoin.ID)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the descriptor for id.
func (c *Catalog) Lookup(id domain.ChainID) (domain.Network, bool) {
	n, ok := c.byID[id]
	return n, ok
}

// Default returns the adapter's default network.
func (c *Catalog) Default() domain.Network {
	return c.def
}

// All returns the known networks in declaration order.
func (c *Catalog) All() []domain.Network {
	out := make([]domain.Network, len(c.networks))
	copy(out, c.networks)
	return out
}

// Params returns the btcd chain parameters for id.
func (c *Catalog) Params(id domain.ChainID) (*chaincfg.Params, bool) {
	p, ok := c.params[id]
	return p, ok
}
