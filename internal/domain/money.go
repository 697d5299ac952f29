package domain

import "github.com/shopspring/decimal"

// MaxAmount is the largest value the NUMERIC(14,2) money columns hold
var MaxAmount = decimal.RequireFromString("999999999999.99")

// PositiveAmount rounds to cents and requires the result to be in (0, MaxAmount].
func PositiveAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if rounded.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return rounded, nil
}

// NonNegativeAmount rounds to cents and requires the result to be in [0, MaxAmount]
func NonNegativeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if rounded.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return rounded, nil
}
