package domain

// UTXO is an unspent transaction output owned by an address.
// Value is denominated in the network's minor unit (satoshis for bitcoin).
type UTXO struct {
	TxID        string `json:"txid"`
	Vout        uint32 `json:"vout"`
	Value       uint64 `json:"value"`
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint64 `json:"block_height,omitempty"`
}

// Balance is the user-facing balance of an address.
type Balance struct {
	Balance string `json:"balance"`
	Symbol  string `json:"symbol"`
}
