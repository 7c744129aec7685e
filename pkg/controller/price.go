package controller

import (
	"math/big"

	"github.com/sigweihq/coffeepay/pkg/constants"
)

// TotalPrice returns unitPrice*quantity in display units as an exact rational.
// A nil unitPrice falls back to the nominal default price.
func TotalPrice(unitPrice *big.Int, quantity int, decimals int) *big.Rat {
	if unitPrice == nil {
		unitPrice = constants.DefaultUnitPriceFor(decimals)
	}
	total := new(big.Int).Mul(unitPrice, big.NewInt(int64(quantity)))
	return new(big.Rat).SetFrac(total, constants.ScaleFor(decimals))
}

// ComputeDisplayPrice formats unitPrice*quantity with three fractional digits,
// using the 18-decimal native scale.
func ComputeDisplayPrice(unitPrice *big.Int, quantity int) string {
	return FormatPrice(unitPrice, quantity, constants.NativeDecimals)
}

// FormatPrice formats unitPrice*quantity for a currency with the given decimals.
// Rounding is half away from zero, applied once to the exact product.
func FormatPrice(unitPrice *big.Int, quantity int, decimals int) string {
	return TotalPrice(unitPrice, quantity, decimals).FloatString(constants.DisplayDecimals)
}
