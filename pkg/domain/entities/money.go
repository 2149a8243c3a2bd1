package entities

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// NewMoney converts a computed amount into a two-decimal currency value.
// NaN and infinities are rejected; they must never reach a persisted table.
func NewMoney(amount float64) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, fmt.Errorf("amount is not a finite number: %v", amount)
	}
	return decimal.NewFromFloat(amount).Round(2), nil
}
