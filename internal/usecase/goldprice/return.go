package goldprice

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

// PeriodReturn derives the fractional return between two price points
// Formula: (to.Price - from.Price) / from.Price
// Returns zero when from.Price is zero: a degraded-mode default that
// guards division by zero, not an error.
func PeriodReturn(from, to domain.PricePoint) decimal.Decimal {
	if from.Price.IsZero() {
		return decimal.Zero
	}

	return to.Price.Sub(from.Price).Div(from.Price)
}
