package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPricePoint_Usable(t *testing.T) {
	assert.True(t, PricePoint{Price: decimal.NewFromFloat(2020.5)}.Usable())
	assert.False(t, PricePoint{Price: decimal.Zero}.Usable())
	assert.False(t, PricePoint{Price: decimal.NewFromFloat(-1)}.Usable())
}
