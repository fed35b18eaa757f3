package goldprice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

func TestPeriodReturn(t *testing.T) {
	tests := []struct {
		name string
		from float64
		to   float64
		want float64
	}{
		{name: "Positive return", from: 2000, to: 2049.4, want: 0.0247},
		{name: "Negative return", from: 2000, to: 1900, want: -0.05},
		{name: "Flat", from: 2000, to: 2000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodReturn(
				domain.PricePoint{Price: decimal.NewFromFloat(tt.from)},
				domain.PricePoint{Price: decimal.NewFromFloat(tt.to)},
			)
			assert.InDelta(t, tt.want, got.InexactFloat64(), 1e-9)
		})
	}
}

func TestPeriodReturn_ZeroFromPrice(t *testing.T) {
	// Degraded-mode default, not an error: no division by zero
	got := PeriodReturn(
		domain.PricePoint{Price: decimal.Zero},
		domain.PricePoint{Price: decimal.NewFromFloat(2020)},
	)
	assert.True(t, got.IsZero())
}
