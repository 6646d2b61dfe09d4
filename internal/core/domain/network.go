package domain

// Currency describes the native currency of a network.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// Network is an immutable network descriptor.
type Network struct {
	ID       ChainID  `json:"id"`
	Name     string   `json:"name"`
	Currency Currency `json:"nativeCurrency"`
	Testnet  bool     `json:"testnet"`
}

// Symbol returns the native currency symbol.
func (n Network) Symbol() string {
	return n.Currency.Symbol
}
