// Package amount converts between integer minor units and decimal major units.
package amount

import (
	"github.com/shopspring/decimal"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

// SatoshiDecimals is the minor-unit exponent of BTC (1 BTC = 10^8 sat).
const SatoshiDecimals int32 = 8

// SumUTXOs adds up the output values. The sum is exact regardless of how many
// outputs there are.
func SumUTXOs(utxos []domain.UTXO) decimal.Decimal {
	sum := decimal.Zero
	for _, u := range utxos {
		sum = sum.Add(decimal.NewFromUint64(u.Value))
	}
	return sum
}

// ToMajor shifts a minor-unit value by decimals places.
func ToMajor(minor decimal.Decimal, decimals int32) decimal.Decimal {
	return minor.Shift(-decimals)
}

// Format renders d as its shortest exact decimal string. Zero is "0".
func Format(d decimal.Decimal) string {
	return d.String()
}
