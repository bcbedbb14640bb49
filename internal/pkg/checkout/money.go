package checkout

import (
	"math"

	"github.com/mreichel/MarketStall/internal/pkg/apperrors"
)

// CartTotals is the money split of one checkout: the full charge and the
// slice the platform keeps, both in minor currency units.
type CartTotals struct {
	TotalMinor int64
	FeeMinor   int64
}

// MinorUnits converts a major-unit price to minor units (cents).
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CalculateCart computes the total charge and platform fee for a list of
// major-unit prices. The fee is round-half-up of feePercent applied to the
// integer minor-unit total. Pure; no I/O.
func CalculateCart(prices []float64, feePercent float64) (CartTotals, error) {
	if len(prices) == 0 {
		return CartTotals{}, apperrors.Validation(apperrors.CodeInvalidInput, "at least one priced item is required")
	}
	if feePercent < 0 || feePercent > 100 {
		return CartTotals{}, apperrors.Validation(apperrors.CodeInvalidInput, "fee percentage must be between 0 and 100")
	}

	var total int64
	for _, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return CartTotals{}, apperrors.Validation(apperrors.CodeInvalidInput, "item price must be a non-negative number")
		}
		total += MinorUnits(p)
	}

	fee := int64(math.Floor(float64(total)*feePercent/100.0 + 0.5))

	return CartTotals{TotalMinor: total, FeeMinor: fee}, nil
}
